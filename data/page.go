package data

import (
	"encoding/binary"
	"fmt"
	"math"
)

// PageAddressSize is the fixed on-disk width of a PageAddress.
// Layout:
//   - Bytes 0-3: PageID (uint32, big-endian)
//   - Bytes 4-5: Index (uint16, big-endian)
const PageAddressSize = 6

// EmptyPageAddress is the reserved sentinel; it encodes to six 0xFF bytes.
var EmptyPageAddress = PageAddress{PageID: math.MaxUint32, Index: math.MaxUint16}

// PageAddress locates a record inside a page.
type PageAddress struct {
	PageID uint32
	Index  uint16
}

// NewPageAddress returns the address of slot index on page pageID.
func NewPageAddress(pageID uint32, index uint16) PageAddress {
	return PageAddress{PageID: pageID, Index: index}
}

// IsEmpty reports whether pa is the empty sentinel. Only the page id is checked.
func (pa PageAddress) IsEmpty() bool {
	return pa.PageID == math.MaxUint32
}

func (pa PageAddress) String() string {
	if pa.IsEmpty() {
		return "----"
	}
	return fmt.Sprintf("%d:%d", pa.PageID, pa.Index)
}

// AppendBinary appends the 6-byte form of pa to buf.
func (pa PageAddress) AppendBinary(buf []byte) ([]byte, error) {
	buf = binary.BigEndian.AppendUint32(buf, pa.PageID)
	buf = binary.BigEndian.AppendUint16(buf, pa.Index)
	return buf, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (pa PageAddress) MarshalBinary() ([]byte, error) {
	return pa.AppendBinary(make([]byte, 0, PageAddressSize))
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (pa *PageAddress) UnmarshalBinary(buf []byte) error {
	addr, err := ReadPageAddress(buf)
	if err != nil {
		return err
	}

	*pa = addr
	return nil
}

// PutPageAddress writes the 6-byte form of pa into buf, which must be large enough.
func PutPageAddress(buf []byte, pa PageAddress) {
	binary.BigEndian.PutUint32(buf[0:4], pa.PageID)
	binary.BigEndian.PutUint16(buf[4:6], pa.Index)
}

// ReadPageAddress decodes the first PageAddressSize bytes of buf.
func ReadPageAddress(buf []byte) (PageAddress, error) {
	if len(buf) < PageAddressSize {
		return EmptyPageAddress, fmt.Errorf("%w: page address needs %d bytes, got %d", ErrInvalid, PageAddressSize, len(buf))
	}

	return PageAddress{
		PageID: binary.BigEndian.Uint32(buf[0:4]),
		Index:  binary.BigEndian.Uint16(buf[4:6]),
	}, nil
}
