// Package pager keeps decoded records in fixed-size pages and shares them between readers.
package pager

import (
	"encoding/binary"

	"github.com/mwantia/litedb/data"
)

// PageSize is the size of every page in bytes.
const PageSize = 8192

// PageHeaderSize is the size of the page header in bytes.
const PageHeaderSize = 16

// PageDataSize is the payload capacity of a single page.
const PageDataSize = PageSize - PageHeaderSize

// PageType represents the type of a page.
type PageType uint8

const (
	// PageTypeEmpty indicates a page without content.
	PageTypeEmpty PageType = iota
	// PageTypeData indicates the primary page of a record.
	PageTypeData
	// PageTypeExtension indicates an overflow page of a record too large for its data page.
	PageTypeExtension
)

// String returns the string representation of a PageType.
func (pt PageType) String() string {
	switch pt {
	case PageTypeEmpty:
		return "Empty"
	case PageTypeData:
		return "Data"
	case PageTypeExtension:
		return "Extension"
	default:
		return "Unknown"
	}
}

// Page is a single fixed-size page.
// Header layout:
//   - Bytes 0-3:   PageID (uint32)
//   - Byte 4:      PageType (uint8)
//   - Bytes 5-6:   Used payload bytes (uint16)
//   - Bytes 7-12:  Next extension page (PageAddress)
//   - Bytes 13-15: Reserved
type Page struct {
	buf []byte
}

func newPage(pageID uint32, pageType PageType) *Page {
	p := &Page{buf: make([]byte, PageSize)}
	binary.BigEndian.PutUint32(p.buf[0:4], pageID)
	p.buf[4] = byte(pageType)
	data.PutPageAddress(p.buf[7:13], data.EmptyPageAddress)
	return p
}

// ID returns the page id stored in the header.
func (p *Page) ID() uint32 {
	return binary.BigEndian.Uint32(p.buf[0:4])
}

// Type returns the page type stored in the header.
func (p *Page) Type() PageType {
	return PageType(p.buf[4])
}

// Address returns the address of the record slot held by this page.
func (p *Page) Address() data.PageAddress {
	return data.NewPageAddress(p.ID(), 0)
}

// Next returns the address of the following extension page, or the empty address.
func (p *Page) Next() data.PageAddress {
	next, _ := data.ReadPageAddress(p.buf[7:13])
	return next
}

func (p *Page) setNext(next data.PageAddress) {
	data.PutPageAddress(p.buf[7:13], next)
}

// Payload returns the used part of the page body.
func (p *Page) Payload() []byte {
	used := int(binary.BigEndian.Uint16(p.buf[5:7]))
	return p.buf[PageHeaderSize : PageHeaderSize+used]
}

// write copies as much of b as fits into the page body and returns the count.
func (p *Page) write(b []byte) int {
	n := copy(p.buf[PageHeaderSize:], b)
	binary.BigEndian.PutUint16(p.buf[5:7], uint16(n))
	return n
}

// Bytes returns the full page, header included.
// Do not modify the returned slice.
func (p *Page) Bytes() []byte {
	return p.buf
}
