package palette

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"

	"golang.org/x/image/riff"
)

/*
typedef struct tagLOGPALETTE {
  WORD         palVersion;
  WORD         palNumEntries;
  PALETTEENTRY palPalEntry[1];
} LOGPALETTE;

typedef struct tagPALETTEENTRY {
  BYTE peRed;
  BYTE peGreen;
  BYTE peBlue;
  BYTE peFlags;
} PALETTEENTRY;
*/

const palVersion = 0x0300

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

// ReadRIFF reads every palette chunk of a RIFF PAL stream and returns their
// entries concatenated, all fully opaque.
func ReadRIFF(r io.Reader) (color.Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return nil, fmt.Errorf("unsupported RIFF content type: %q", string(formType[:]))
	}

	pal, err := readChunks(rd, "PAL")
	if err != nil {
		return nil, err
	}
	if len(pal) == 0 {
		return nil, ErrEmptyPalette
	}
	return pal, nil
}

func readChunks(r *riff.Reader, ident string) (color.Palette, error) {
	var res color.Palette

	for i := 0; ; i++ {
		id, size, data, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return res, nil
			}
			return res, fmt.Errorf("could not read chunk %s#%d: %w", ident, i, err)
		}

		chunkIdent := fmt.Sprintf("%s#%d", ident, i)
		switch id {
		case riff.LIST:
			listType, list, err := riff.NewListReader(size, data)
			if err != nil {
				return res, fmt.Errorf("could not read list from chunk %s: %w", chunkIdent, err)
			} else if listType != palType {
				return res, fmt.Errorf("chunk %s has unsupported list type: %q", chunkIdent, string(listType[:]))
			}

			sub, err := readChunks(list, chunkIdent)
			res = append(res, sub...)
			if err != nil {
				return res, err
			}
		case dataType:
			pal, err := readLogPalette(data, chunkIdent)
			if err != nil {
				return res, err
			}
			res = append(res, pal...)
		default:
			return res, fmt.Errorf("unsupported chunk type in %s: %q", chunkIdent, string(id[:]))
		}
	}
}

func readLogPalette(r io.Reader, ident string) (color.Palette, error) {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("could not read header of chunk %s: %w", ident, err)
	}

	if ver := binary.LittleEndian.Uint16(head[:2]); ver != palVersion {
		return nil, fmt.Errorf("unsupported palette version in chunk %s: %#04x", ident, ver)
	}

	count := int(binary.LittleEndian.Uint16(head[2:]))
	entries := make([]byte, 4*count)
	if _, err := io.ReadFull(r, entries); err != nil {
		return nil, fmt.Errorf("could not read %d colors from chunk %s: %w", count, ident, err)
	}

	pal := make(color.Palette, count)
	for i := range count {
		e := entries[4*i:]
		pal[i] = color.RGBA{R: e[0], G: e[1], B: e[2], A: 0xFF}
	}
	return pal, nil
}

// WriteRIFF writes pal as a single-chunk RIFF PAL stream.
func WriteRIFF(w io.Writer, pal color.Palette) (int64, error) {
	if len(pal) > 0xFFFF {
		return 0, fmt.Errorf("palette has %d colors, at most %d fit in a chunk", len(pal), 0xFFFF)
	}

	chunkSize := 4 + 4*len(pal) // palVersion + palNumEntries + 4 bytes/color
	buf := make([]byte, 0, 12+8+chunkSize)

	buf = append(buf, riffType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(4+8+chunkSize))
	buf = append(buf, palType[:]...)

	buf = append(buf, dataType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(chunkSize))
	buf = binary.LittleEndian.AppendUint16(buf, palVersion)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(pal)))
	for _, col := range pal {
		c := color.NRGBAModel.Convert(col).(color.NRGBA)
		buf = append(buf, c.R, c.G, c.B, 0x00)
	}

	n, err := w.Write(buf)
	if err != nil {
		return int64(n), fmt.Errorf("could not write palette: %w", err)
	}
	return int64(n), nil
}
