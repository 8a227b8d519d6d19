// Package texture decodes cube texture images.
package texture

import (
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

// DecodeTGA decodes a TGA image.
// Supports uncompressed (type 2) and RLE compressed (type 10) true-color files
// at 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d (only uncompressed/RLE true-color supported)", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d (only 24/32 supported)", bpp)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("TGA has empty dimensions %dx%d", width, height)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}

	d := tgaDecoder{
		img:           image.NewRGBA(image.Rect(0, 0, width, height)),
		pixels:        data[offset:],
		width:         width,
		height:        height,
		bytesPerPixel: bpp / 8,
		topToBottom:   descriptor&0x20 != 0,
	}

	if imageType == TGATypeUncompressed {
		if len(d.pixels) < width*height*d.bytesPerPixel {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
		for i := 0; i < width*height; i++ {
			d.put(i, d.read(i*d.bytesPerPixel))
		}
		return d.img, nil
	}

	d.decodeRLE()
	return d.img, nil
}

type tgaDecoder struct {
	img           *image.RGBA
	pixels        []byte
	width, height int
	bytesPerPixel int
	topToBottom   bool
}

// read returns the BGR(A) pixel at byte offset i.
func (d *tgaDecoder) read(i int) color.RGBA {
	c := color.RGBA{R: d.pixels[i+2], G: d.pixels[i+1], B: d.pixels[i], A: 255}
	if d.bytesPerPixel == 4 {
		c.A = d.pixels[i+3]
	}
	return c
}

// put stores the n-th pixel in file order, flipping bottom-up files.
func (d *tgaDecoder) put(n int, c color.RGBA) {
	x, y := n%d.width, n/d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	d.img.SetRGBA(x, y, c)
}

// decodeRLE decodes RLE packets; a truncated stream leaves the rest transparent.
func (d *tgaDecoder) decodeRLE() {
	total := d.width * d.height
	n, i := 0, 0

	for n < total && i < len(d.pixels) {
		packet := d.pixels[i]
		i++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if i+d.bytesPerPixel > len(d.pixels) {
				return
			}
			c := d.read(i)
			i += d.bytesPerPixel
			for k := 0; k < count && n < total; k++ {
				d.put(n, c)
				n++
			}
			continue
		}

		for k := 0; k < count && n < total; k++ {
			if i+d.bytesPerPixel > len(d.pixels) {
				return
			}
			d.put(n, d.read(i))
			i += d.bytesPerPixel
			n++
		}
	}
}
