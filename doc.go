// Package ui is the layout, text flow and clipping core of a retained 2D UI
// layer hosted in an entity/component world.
//
// Every frame it answers three questions for each element:
//
//   - Where is it? Transforms place an element's pivot on an anchor point of
//     its parent's resolved rectangle (or the viewport for roots), plus an
//     offset. See Resolve and UI.ResolveTransforms.
//   - How does its text flow? Multi-section styled text is broken into lines
//     inside the element's rectangle, with optional wrapping, justification
//     and per-line alignment. See LayoutSections.
//   - Is it visible? Masks clip an element, and everything below it, to the
//     rectangle of a target element. See UI.ResolveClip and Classify.
//
// Raw pointer input is then turned into hover, press, release and drag
// events for the front-most element under the pointer.
//
// # Hosting
//
// The UI does not own the scene graph. It reads structure through the
// Hierarchy interface and glyph sizes through GlyphMetrics. Tree is a
// ready-made Hierarchy; FaceMetrics and CellMetrics are ready-made metrics.
//
//	tree := ui.NewTree()
//	u := ui.New(tree, ui.NewFaceMetrics(), ui.WithWorkers(4))
//
//	panel := tree.Create()
//	_ = u.SetTransform(panel, ui.NewTransform("panel", ui.Middle, 0, 0, 0, 0, 300, 200))
//
//	label := tree.CreateChild(panel)
//	_ = u.SetTransform(label, ui.NewTransform("label", ui.TopLeft, 0, 8, 8, 1, 284, 40))
//	_ = u.SetText(label, ui.MultiSectionText{
//		Sections: []ui.TextSection{{Text: "Hello", Color: ui.ColorWhite, Size: 16}},
//		Wrap:     ui.Wrap,
//	})
//	_ = u.SetMask(label, ui.Mask{Target: panel})
//
//	for running {
//		u.Sync(tree) // drop components of destroyed entities
//		if err := u.Frame(viewport, queue.Drain()); err != nil {
//			log.Println(err) // broken subtrees were skipped
//		}
//		for _, ev := range u.Drain() {
//			...
//		}
//	}
//
// # Frames
//
// Results are only valid for the frame that computed them. Per-element
// caches are stamped with the frame counter, so reading a value that was not
// recomputed this frame reports "not found" rather than stale data.
//
// Stages run in order: transforms, then text layout and clipping, then event
// dispatch. Within a stage, independent work (root subtrees, elements) may
// run on several goroutines; see WithWorkers.
//
// # Errors
//
// A cycle in the hierarchy or a child whose parent cannot be resolved skips
// that subtree for the frame. The failures are returned from Frame as
// *HierarchyError values joined with errors.Join; test for them with
// errors.Is(err, ErrCycle) or errors.Is(err, ErrParentUnresolved). A mask
// whose target is gone is not an error: the mask simply does nothing.
//
// # Logging
//
// The package logs through log/slog. Debug output is off by default; call
// SetVerbose or pass WithLogger.
package ui
