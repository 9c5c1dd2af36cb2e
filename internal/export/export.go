// Package export writes skill trees to portable files and reads them back.
//
// Files are JSON (the same layout the store persists) or MessagePack,
// optionally wrapped in a zstd frame. Imported data goes through the same
// per-entry validation and sanitizing as stored data.
package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/abhisek/skilltree/internal/skillgraph"
	"github.com/abhisek/skilltree/internal/store"
)

// Format selects the encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatMsgpack:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q (want json or msgpack)", s)
	}
}

// Options controls Encode.
type Options struct {
	Format   Format
	Compress bool
}

// ErrNoSkills is returned by Decode when the input holds no valid skill.
var ErrNoSkills = errors.New("no valid skills in input")

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Encode writes t to w.
func Encode(w io.Writer, t skillgraph.Tree, opts Options) error {
	data, err := marshal(t, opts.Format)
	if err != nil {
		return err
	}

	if opts.Compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return fmt.Errorf("zstd writer: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		enc.Close()
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

func marshal(t skillgraph.Tree, f Format) ([]byte, error) {
	switch f {
	case FormatJSON, "":
		data, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatMsgpack:
		data, err := msgpack.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("encode msgpack: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown export format %q", f)
	}
}

// Decode reads a tree written by Encode. The format and compression are
// detected from the content.
func Decode(r io.Reader) (*skillgraph.Tree, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("read import: %w", err)
	}

	if bytes.HasPrefix(data, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		data, err = dec.DecodeAll(data, nil)
		dec.Close()
		if err != nil {
			return nil, fmt.Errorf("decompress import: %w", err)
		}
	}

	raw, err := toJSON(data)
	if err != nil {
		return nil, err
	}

	t := store.Decode(raw)
	if t == nil {
		return nil, ErrNoSkills
	}
	return t, nil
}

// toJSON normalizes either encoding to JSON so validation has one input shape.
func toJSON(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return trimmed, nil
	}

	var v map[string]any
	if err := msgpack.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("input is neither JSON nor msgpack: %w", err)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("convert msgpack: %w", err)
	}
	return raw, nil
}
