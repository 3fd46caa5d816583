// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"unsafe"

	"github.com/devblok/gpengine/gfx"
	vk "github.com/vulkan-go/vulkan"
)

// CreateRenderPass implements gfx.Driver.
func (d *Driver) CreateRenderPass(device gfx.Device, info gfx.RenderPassInfo) (gfx.RenderPass, error) {
	attachments := make([]vk.AttachmentDescription, len(info.Attachments))
	for i, a := range info.Attachments {
		attachments[i] = vk.AttachmentDescription{
			Format:         vk.Format(a.Format),
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vk.AttachmentLoadOp(a.LoadOp),
			StoreOp:        vk.AttachmentStoreOp(a.StoreOp),
			StencilLoadOp:  vk.AttachmentLoadOp(a.StencilLoadOp),
			StencilStoreOp: vk.AttachmentStoreOp(a.StencilStoreOp),
			InitialLayout:  vk.ImageLayout(a.InitialLayout),
			FinalLayout:    vk.ImageLayout(a.FinalLayout),
		}
	}

	colorRef := []vk.AttachmentReference{reference(info.Color)}
	depthRef := reference(info.Depth)
	subpass := vk.SubpassDescription{
		PipelineBindPoint:       vk.PipelineBindPointGraphics,
		ColorAttachmentCount:    uint32(len(colorRef)),
		PColorAttachments:       colorRef,
		PDepthStencilAttachment: &depthRef,
	}

	dependencies := make([]vk.SubpassDependency, len(info.Dependencies))
	for i, dep := range info.Dependencies {
		dependencies[i] = vk.SubpassDependency{
			SrcSubpass:    dep.SrcSubpass,
			DstSubpass:    dep.DstSubpass,
			SrcStageMask:  vk.PipelineStageFlags(dep.SrcStage),
			DstStageMask:  vk.PipelineStageFlags(dep.DstStage),
			SrcAccessMask: vk.AccessFlags(dep.SrcAccess),
			DstAccessMask: vk.AccessFlags(dep.DstAccess),
		}
	}

	createInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: uint32(len(dependencies)),
		PDependencies:   dependencies,
	}

	var pass vk.RenderPass
	if err := check("CreateRenderPass", vk.CreateRenderPass(vkDevice(device), &createInfo, nil, &pass)); err != nil {
		return 0, err
	}
	return gfx.RenderPass(handle(unsafe.Pointer(pass))), nil
}

func reference(r gfx.AttachmentRef) vk.AttachmentReference {
	return vk.AttachmentReference{
		Attachment: r.Attachment,
		Layout:     vk.ImageLayout(r.Layout),
	}
}

// DestroyRenderPass implements gfx.Driver.
func (d *Driver) DestroyRenderPass(device gfx.Device, pass gfx.RenderPass) {
	vk.DestroyRenderPass(vkDevice(device), vkRenderPass(pass), nil)
}

// CreateFramebuffer implements gfx.Driver.
func (d *Driver) CreateFramebuffer(device gfx.Device, info gfx.FramebufferInfo) (gfx.Framebuffer, error) {
	views := make([]vk.ImageView, len(info.Attachments))
	for i, v := range info.Attachments {
		views[i] = vkImageView(v)
	}

	createInfo := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      vkRenderPass(info.RenderPass),
		AttachmentCount: uint32(len(views)),
		PAttachments:    views,
		Width:           info.Extent.Width,
		Height:          info.Extent.Height,
		Layers:          info.Layers,
	}

	var fb vk.Framebuffer
	if err := check("CreateFramebuffer", vk.CreateFramebuffer(vkDevice(device), &createInfo, nil, &fb)); err != nil {
		return 0, err
	}
	return gfx.Framebuffer(handle(unsafe.Pointer(fb))), nil
}

// DestroyFramebuffer implements gfx.Driver.
func (d *Driver) DestroyFramebuffer(device gfx.Device, framebuffer gfx.Framebuffer) {
	vk.DestroyFramebuffer(vkDevice(device), vkFramebuffer(framebuffer), nil)
}
