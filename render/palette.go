// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/palette.go
// Summary: LRU table mapping RGB colors to backend color slots.

package render

import "container/list"

// paletteEntry is the list payload: one live slot binding.
type paletteEntry struct {
	color RGB
	slot  Slot
}

// palette allocates backend color slots with least-recently-used eviction.
// The front of the list is the most recently requested color.
type palette struct {
	capacity int
	order    *list.List
	byColor  map[RGB]*list.Element
}

func newPalette(capacity int) *palette {
	return &palette{
		capacity: capacity,
		order:    list.New(),
		byColor:  make(map[RGB]*list.Element),
	}
}

// slot returns the slot for c, allocating or evicting as needed. define is
// true when the caller must (re)bind the slot on the backend before use.
func (p *palette) slot(c RGB) (s Slot, define bool, err error) {
	if el, ok := p.byColor[c]; ok {
		p.order.MoveToFront(el)
		return el.Value.(*paletteEntry).slot, false, nil
	}
	if p.capacity <= 0 {
		return 0, false, ErrColorExhausted
	}
	if p.order.Len() < p.capacity {
		entry := &paletteEntry{color: c, slot: Slot(p.order.Len())}
		p.byColor[c] = p.order.PushFront(entry)
		return entry.slot, true, nil
	}
	// Pool exhausted: remap the least-recently-requested color.
	el := p.order.Back()
	entry := el.Value.(*paletteEntry)
	delete(p.byColor, entry.color)
	entry.color = c
	p.byColor[c] = el
	p.order.MoveToFront(el)
	return entry.slot, true, nil
}

// len reports how many slots are currently bound.
func (p *palette) len() int {
	return p.order.Len()
}
