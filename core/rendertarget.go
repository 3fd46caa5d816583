// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/devblok/gpengine/gfx"
	glm "github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"
)

// RenderTargets is the render pass and one framebuffer per swapchain image.
type RenderTargets struct {
	RenderPass   gfx.RenderPass
	Framebuffers []gfx.Framebuffer
	Extent       gfx.Extent2D

	clearColor glm.Vec4
}

// ClearValues are what the attachments are cleared to on load,
// color first and then depth and stencil. Color components are
// clamped to the unit range a normalised attachment can hold.
func (r *RenderTargets) ClearValues() (color glm.Vec4, depth float32, stencil uint32) {
	for i, v := range r.clearColor {
		color[i] = glm.Clamp(v, 0, 1)
	}
	return color, 1.0, 0
}

// RenderPassDescription describes the single-subpass pass every frame is
// recorded into. The color attachment ends in shader-read layout; whoever
// presents it must transition it to present-source first.
func RenderPassDescription(color, depth gfx.Format) gfx.RenderPassInfo {
	return gfx.RenderPassInfo{
		Attachments: []gfx.Attachment{
			{
				Format:         color,
				LoadOp:         gfx.LoadOpClear,
				StoreOp:        gfx.StoreOpStore,
				StencilLoadOp:  gfx.LoadOpDontCare,
				StencilStoreOp: gfx.StoreOpDontCare,
				InitialLayout:  gfx.LayoutUndefined,
				FinalLayout:    gfx.LayoutShaderReadOnlyOptimal,
			},
			{
				Format:         depth,
				LoadOp:         gfx.LoadOpClear,
				StoreOp:        gfx.StoreOpStore,
				StencilLoadOp:  gfx.LoadOpDontCare,
				StencilStoreOp: gfx.StoreOpDontCare,
				InitialLayout:  gfx.LayoutUndefined,
				FinalLayout:    gfx.LayoutDepthStencilAttachmentOptimal,
			},
		},
		Color: gfx.AttachmentRef{Attachment: 0, Layout: gfx.LayoutColorAttachmentOptimal},
		Depth: gfx.AttachmentRef{Attachment: 1, Layout: gfx.LayoutDepthStencilAttachmentOptimal},
		Dependencies: []gfx.SubpassDependency{{
			SrcSubpass: 0,
			DstSubpass: gfx.SubpassExternal,
			SrcStage:   gfx.StageColorAttachmentOutput,
			DstStage:   gfx.StageFragmentShader,
			SrcAccess:  gfx.AccessColorAttachmentWrite,
			DstAccess:  gfx.AccessShaderRead,
		}},
	}
}

func createRenderTargets(drv gfx.Driver, ld *LogicalDevice, sc *SwapchainState, depth *DepthResource, clearColor glm.Vec4, lc *lifecycle, logger log.FieldLogger) (*RenderTargets, error) {
	device := ld.Handle
	pass, err := drv.CreateRenderPass(device, RenderPassDescription(sc.Format.Format, depth.Format))
	if err != nil {
		return nil, driverFailure(err, "creating render pass")
	}
	lc.acquired("render pass", func() { drv.DestroyRenderPass(device, pass) })

	rt := &RenderTargets{
		RenderPass: pass,
		Extent:     sc.Extent,
		clearColor: clearColor,
	}
	for idx, view := range sc.Views {
		fb, err := drv.CreateFramebuffer(device, gfx.FramebufferInfo{
			RenderPass:  pass,
			Attachments: []gfx.ImageView{view, depth.View},
			Extent:      sc.Extent,
			Layers:      1,
		})
		if err != nil {
			return nil, driverFailure(err, "creating framebuffer %d", idx)
		}
		rt.Framebuffers = append(rt.Framebuffers, fb)
		lc.acquired("framebuffer", func() { drv.DestroyFramebuffer(device, fb) })
	}

	logger.WithField("framebuffers", len(rt.Framebuffers)).Info("render targets created")
	return rt, nil
}
