// Package shatter turns a rendered camera frame into a field of independently
// animated particles and disperses or re-converges them: the "screen
// shatter", "black hole", and "wind" transitions.
//
// A capture samples the frame on a regular grid, resolves every sample to a
// scene anchor with a ray query, and spawns one [Particle] per sample carrying
// the pixel color. Each particle gets a target from the field's [MovingMode]
// once, at spawn. The fixed tick then moves every particle towards its target,
// or back to its origin when the speed is negative.
//
// # Quick start
//
// The host supplies the frame, the ray queries, and optionally the visuals
// and layer control:
//
//	field, err := shatter.NewField(shatter.Config{
//		ColumnCount:    80,
//		RowCount:       45,
//		ParticlesSpeed: 0.5,
//		MovingMode:     shatter.Converge{Point: mgl64.Vec3{0, 0, 5}},
//	}, shatter.Host{
//		Frames:     frames,  // shatter.FrameSource
//		Rays:       rays,    // shatter.RayQuerier
//		Visibility: layers,  // shatter.VisibilityController
//		Visuals:    visuals, // shatter.VisualFactory
//	})
//
//	// variable-rate tick, on the capture trigger:
//	if err := field.Capture(); err != nil { ... }
//
//	// fixed-rate tick:
//	field.Update(1.0 / 60)
//
// # Moving modes
//
// [Converge] sends every particle to one shared point. [DivergeUniform] draws
// X and Y from an offset band and keeps Z. [DivergeSpherical] pushes each
// particle a fixed radius away in a random direction, optionally confined to
// the XY plane.
//
// # Grid indexing
//
// With [IndexGrid] the field also indexes particles by sample coordinate and
// toggles [Particle.Active] whenever a particle sits on its target: inactive
// under non-negative speed, active under negative speed. Inactive particles
// are hidden and do not move.
//
// # Hosts
//
// Sub-packages provide ready-made collaborators: raycast (pinhole camera and
// simple colliders), ebitenhost ([Ebitengine] frames, layers, and visuals),
// termhost ([tcell] terminal rendering), backdrop (noise frames), and the
// ecs module ([Donburi] event bridge).
//
// [Ebitengine]: https://ebitengine.org
// [tcell]: https://github.com/gdamore/tcell
// [Donburi]: https://github.com/yohamta/donburi
package shatter
