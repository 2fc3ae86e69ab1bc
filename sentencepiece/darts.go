package sentencepiece

import (
	"bytes"
	"fmt"
)

const (
	leafBit    = uint32(1) << 31
	hasLeafBit = uint32(1) << 8
	extendBit  = uint32(1) << 9
	blockSize  = 256
	maxOffset  = 1 << 21
)

// trie is a read-only double-array in the darts-clone unit encoding, the
// layout a precompiled charsmap embeds. A transition XORs the current
// node's offset with the next input byte; the unit landed on must carry
// that byte as its label for the transition to hold.
//
// Unit layout:
//
//	bits 0-7    incoming label
//	bit 8       a key terminates at this node
//	bit 9       offset is stored shifted by a further 8 bits
//	bits 10-30  offset
//	bit 31      value unit, bits 0-30 hold the stored value
type trie struct {
	units []uint32
}

func unitOffset(unit uint32) uint32 {
	return (unit >> 10) << ((unit & extendBit) >> 6)
}

func unitLabel(unit uint32) uint32 {
	return unit & (leafBit | 0xFF)
}

func unitValue(unit uint32) int32 {
	return int32(unit &^ leafBit)
}

func unitHasLeaf(unit uint32) bool {
	return unit&hasLeafBit != 0
}

// prefixMatches
// Returns the stored value and byte length of every key that prefixes s,
// shortest first. Bounds are checked so a corrupt unit array cannot send
// the walk outside the trie.
func (t *trie) prefixMatches(s []byte) (values []int32, lengths []int) {
	if len(t.units) == 0 {
		return nil, nil
	}
	nodePos := unitOffset(t.units[0])
	for i := 0; i < len(s); i++ {
		c := uint32(s[i])
		nodePos ^= c
		if nodePos >= uint32(len(t.units)) {
			break
		}
		unit := t.units[nodePos]
		if unitLabel(unit) != c {
			break
		}
		nodePos ^= unitOffset(unit)
		if unitHasLeaf(unit) && nodePos < uint32(len(t.units)) {
			values = append(values, unitValue(t.units[nodePos]))
			lengths = append(lengths, i+1)
		}
	}
	return values, lengths
}

// walk
// Visits every key in byte-lexicographic order. The key slice is reused
// between calls and must not be retained.
func (t *trie) walk(visit func(key []byte, value int32) error) error {
	if len(t.units) == 0 {
		return nil
	}
	var descend func(nodePos uint32, prefix []byte) error
	descend = func(nodePos uint32, prefix []byte) error {
		unit := t.units[nodePos]
		base := nodePos ^ unitOffset(unit)
		if unitHasLeaf(unit) {
			if base >= uint32(len(t.units)) {
				return fmt.Errorf("value slot %d beyond %d units",
					base, len(t.units))
			}
			if err := visit(prefix, unitValue(t.units[base])); err != nil {
				return err
			}
		}
		for c := uint32(1); c < 256; c++ {
			child := base ^ c
			if child >= uint32(len(t.units)) ||
				unitLabel(t.units[child]) != c {
				continue
			}
			if err := descend(child, append(prefix, byte(c))); err != nil {
				return err
			}
		}
		return nil
	}
	return descend(0, nil)
}

// dartsBuilder packs a trie for a fixed key set. Offsets are assigned
// first-fit from the low end and never shared between nodes, so the unit
// array is a pure function of the key set.
type dartsBuilder struct {
	keys     [][]byte
	values   []int32
	units    []uint32
	used     []bool
	baseUsed map[int]bool
}

// buildDoubleArray
// Lays out the given keys as darts-clone units. Keys must be sorted,
// unique, non-empty and free of zero bytes, with one non-negative value
// each. The array is padded to whole 256 unit blocks and unused slots
// are stamped with the leaf bit, which matches no input byte, so every
// probe a lookup can make stays inside the array.
func buildDoubleArray(keys [][]byte, values []int32) ([]uint32, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("no keys")
	}
	if len(keys) != len(values) {
		return nil, fmt.Errorf("%d keys with %d values",
			len(keys), len(values))
	}
	for i, key := range keys {
		if len(key) == 0 {
			return nil, fmt.Errorf("empty key at index %d", i)
		}
		if bytes.IndexByte(key, 0) >= 0 {
			return nil, fmt.Errorf("key %q contains a zero byte", key)
		}
		if i > 0 && bytes.Compare(keys[i-1], key) >= 0 {
			return nil, fmt.Errorf("keys not sorted and unique at index %d",
				i)
		}
		if values[i] < 0 {
			return nil, fmt.Errorf("negative value for key %q", key)
		}
	}
	builder := &dartsBuilder{
		keys:     keys,
		values:   values,
		baseUsed: make(map[int]bool),
	}
	builder.grow(blockSize)
	builder.used[0] = true
	if err := builder.arrange(0, len(keys), 0, 0); err != nil {
		return nil, err
	}
	for len(builder.units)%blockSize != 0 {
		builder.units = append(builder.units, 0)
		builder.used = append(builder.used, false)
	}
	for i := range builder.units {
		if !builder.used[i] {
			builder.units[i] = leafBit
		}
	}
	return builder.units, nil
}

// arrange places the children of the node at nodePos, which covers
// keys[begin:end), all sharing their first depth bytes. Every sibling
// slot is claimed before any child is descended into.
func (builder *dartsBuilder) arrange(begin, end, depth, nodePos int) error {
	labels := make([]int, 0, 8)
	starts := make([]int, 0, 9)
	i := begin
	if len(builder.keys[i]) == depth {
		labels = append(labels, 0)
		starts = append(starts, i)
		i++
	}
	for i < end {
		c := int(builder.keys[i][depth])
		labels = append(labels, c)
		starts = append(starts, i)
		for i < end && int(builder.keys[i][depth]) == c {
			i++
		}
	}
	starts = append(starts, end)

	base := builder.findBase(labels)
	builder.baseUsed[base] = true
	offset := nodePos ^ base
	if offset >= maxOffset {
		return fmt.Errorf("offset %d exceeds the compact unit encoding",
			offset)
	}
	builder.units[nodePos] |= uint32(offset) << 10
	if labels[0] == 0 {
		builder.units[nodePos] |= hasLeafBit
	}
	for k, c := range labels {
		slot := base ^ c
		builder.occupy(slot)
		if c == 0 {
			builder.units[slot] = leafBit | uint32(builder.values[starts[k]])
		} else {
			builder.units[slot] = uint32(c)
		}
	}
	for k, c := range labels {
		if c == 0 {
			continue
		}
		err := builder.arrange(starts[k], starts[k+1], depth+1, base^c)
		if err != nil {
			return err
		}
	}
	return nil
}

// findBase returns the lowest unclaimed base whose slots are free for
// every label in the sibling set. Slots past the current end of the
// array count as free.
func (builder *dartsBuilder) findBase(labels []int) int {
	for base := 1; ; base++ {
		if builder.baseUsed[base] {
			continue
		}
		fits := true
		for _, c := range labels {
			slot := base ^ c
			if slot < len(builder.used) && builder.used[slot] {
				fits = false
				break
			}
		}
		if fits {
			return base
		}
	}
}

func (builder *dartsBuilder) occupy(slot int) {
	builder.grow(slot + 1)
	builder.used[slot] = true
}

func (builder *dartsBuilder) grow(size int) {
	for len(builder.units) < size {
		builder.units = append(builder.units, 0)
		builder.used = append(builder.used, false)
	}
}
