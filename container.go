package lznf

import (
	"errors"
	"fmt"
)

// A Container is a complete LZNF file: a header, the literal block and the
// match block, in that order.
type Container struct {
	Header   Header
	Literals *Block
	Matches  *Block
}

func (c *Container) MarshalBinary() ([]byte, error) {
	if c.Literals == nil || c.Matches == nil {
		return nil, errors.New("lznf: container is missing a block")
	}
	size := fixedHeaderLen + len(c.Header.Name) + c.Literals.Size() + c.Matches.Size()
	buf, err := c.Header.AppendTo(make([]byte, 0, size))
	if err != nil {
		return nil, err
	}
	buf = c.Literals.AppendTo(buf)
	buf = c.Matches.AppendTo(buf)
	c.Header.SetDataOffset(buf)
	return buf, nil
}

// UnmarshalBinary parses a container. It checks the structure only; the
// blocks are decoded separately.
func (c *Container) UnmarshalBinary(data []byte) error {
	h, rest, err := parseHeader(data)
	if err != nil {
		return err
	}
	literals, rest, err := parseBlock(rest)
	if err != nil {
		return fmt.Errorf("literal block: %w", err)
	}
	matches, rest, err := parseBlock(rest)
	if err != nil {
		return fmt.Errorf("match block: %w", err)
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(rest))
	}

	c.Header = *h
	c.Literals = literals
	c.Matches = matches
	return nil
}
