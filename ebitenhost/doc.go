// Package ebitenhost connects a shatter.Field to an [Ebitengine] game.
//
// [Compositor] draws named layers into a frame image the field captures from
// and hides every layer but the particle layer once a capture commits.
// [Visuals] creates one screen-facing square per particle, projected through
// a raycast.Camera, and draws them as a compositor layer:
//
//	comp := ebitenhost.NewCompositor(w, h)
//	vis := ebitenhost.NewVisuals(cam, w, h)
//	comp.AddLayer("scene", drawScene)
//	comp.AddLayer("particles", vis.Draw)
//
//	field, _ := shatter.NewField(cfg, shatter.Host{
//		Frames: comp, Rays: rays, Visibility: comp, Visuals: vis,
//	})
//
// [Ebitengine]: https://ebitengine.org
package ebitenhost
