package msg

import (
	"fmt"

	"github.com/bramburn/gnsshub/internal/wire"
)

// NAV message ids this package decodes in full. Others fall back to
// UbxUnknown — decoding GNSS semantics beyond framing is a Non-goal.
const (
	NavPvtID byte = 0x07
)

// FixType is the UBX-NAV-PVT fix type byte.
type FixType uint8

const (
	FixNone          FixType = 0
	FixDeadReckoning FixType = 1
	Fix2D            FixType = 2
	Fix3D            FixType = 3
	FixGnssDeadReck  FixType = 4
	FixTimeOnly      FixType = 5
)

// NavPvt is UBX-NAV-PVT (Navigation Position Velocity Time Solution), the
// 92-byte payload a receiver emits once per navigation epoch.
type NavPvt struct {
	ITOW             uint32
	Year             uint16
	Month, Day       uint8
	Hour, Min        uint8
	Sec              uint8
	Valid            uint8
	TAcc             uint32
	Nano             int32
	FixType          FixType
	Flags            uint8
	Flags2           uint8
	NumSV            uint8
	Lon              int32 // 1e-7 deg
	Lat              int32 // 1e-7 deg
	Height           int32 // mm, ellipsoid
	HeightMSL        int32 // mm, above mean sea level
	HAcc             uint32
	VAcc             uint32
	VelN, VelE, VelD int32
	GSpeed           int32
	HeadMot          int32
	SAcc             uint32
	HeadAcc          uint32
	PDOP             uint16
	Rest             []byte // trailing reserved/flags3/headVeh/magDec/magAcc, preserved verbatim
}

func (n *NavPvt) ClassID() (byte, byte) { return ClassNav, NavPvtID }

func (n *NavPvt) encode(w *wire.Writer) {
	w.WriteU32LE(n.ITOW)
	w.WriteU16LE(n.Year)
	w.WriteU8(n.Month)
	w.WriteU8(n.Day)
	w.WriteU8(n.Hour)
	w.WriteU8(n.Min)
	w.WriteU8(n.Sec)
	w.WriteU8(n.Valid)
	w.WriteU32LE(n.TAcc)
	w.WriteI32LE(n.Nano)
	w.WriteU8(uint8(n.FixType))
	w.WriteU8(n.Flags)
	w.WriteU8(n.Flags2)
	w.WriteU8(n.NumSV)
	w.WriteI32LE(n.Lon)
	w.WriteI32LE(n.Lat)
	w.WriteI32LE(n.Height)
	w.WriteI32LE(n.HeightMSL)
	w.WriteU32LE(n.HAcc)
	w.WriteU32LE(n.VAcc)
	w.WriteI32LE(n.VelN)
	w.WriteI32LE(n.VelE)
	w.WriteI32LE(n.VelD)
	w.WriteI32LE(n.GSpeed)
	w.WriteI32LE(n.HeadMot)
	w.WriteU32LE(n.SAcc)
	w.WriteU32LE(n.HeadAcc)
	w.WriteU16LE(n.PDOP)
	w.WriteBytes(n.Rest)
}

func decodeNav(id byte, payload []byte) (Body, error, bool) {
	if id != NavPvtID {
		return nil, nil, false
	}
	if len(payload) != 92 {
		return nil, fmt.Errorf("%w: nav-pvt length %d", ErrInvalidLen, len(payload)), true
	}
	r := readerFor(payload)
	n := &NavPvt{}
	var err error
	if n.ITOW, err = r.ReadU32LE(); err != nil {
		return nil, fmt.Errorf("nav-pvt: %w", err), true
	}
	if n.Year, err = r.ReadU16LE(); err != nil {
		return nil, fmt.Errorf("nav-pvt: %w", err), true
	}
	var b uint8
	read8 := func(dst *uint8) {
		if err != nil {
			return
		}
		b, err = r.ReadU8()
		*dst = b
	}
	read8(&n.Month)
	read8(&n.Day)
	read8(&n.Hour)
	read8(&n.Min)
	read8(&n.Sec)
	read8(&n.Valid)
	if err != nil {
		return nil, fmt.Errorf("nav-pvt: %w", err), true
	}
	if n.TAcc, err = r.ReadU32LE(); err != nil {
		return nil, fmt.Errorf("nav-pvt: %w", err), true
	}
	if n.Nano, err = r.ReadI32LE(); err != nil {
		return nil, fmt.Errorf("nav-pvt: %w", err), true
	}
	var fixType, flags, flags2, numSV uint8
	read8(&fixType)
	read8(&flags)
	read8(&flags2)
	read8(&numSV)
	if err != nil {
		return nil, fmt.Errorf("nav-pvt: %w", err), true
	}
	n.FixType, n.Flags, n.Flags2, n.NumSV = FixType(fixType), flags, flags2, numSV

	for _, dst := range []*int32{&n.Lon, &n.Lat, &n.Height, &n.HeightMSL} {
		if *dst, err = r.ReadI32LE(); err != nil {
			return nil, fmt.Errorf("nav-pvt: %w", err), true
		}
	}
	if n.HAcc, err = r.ReadU32LE(); err != nil {
		return nil, fmt.Errorf("nav-pvt: %w", err), true
	}
	if n.VAcc, err = r.ReadU32LE(); err != nil {
		return nil, fmt.Errorf("nav-pvt: %w", err), true
	}
	for _, dst := range []*int32{&n.VelN, &n.VelE, &n.VelD, &n.GSpeed, &n.HeadMot} {
		if *dst, err = r.ReadI32LE(); err != nil {
			return nil, fmt.Errorf("nav-pvt: %w", err), true
		}
	}
	if n.SAcc, err = r.ReadU32LE(); err != nil {
		return nil, fmt.Errorf("nav-pvt: %w", err), true
	}
	if n.HeadAcc, err = r.ReadU32LE(); err != nil {
		return nil, fmt.Errorf("nav-pvt: %w", err), true
	}
	if n.PDOP, err = r.ReadU16LE(); err != nil {
		return nil, fmt.Errorf("nav-pvt: %w", err), true
	}
	n.Rest = append([]byte(nil), r.Remaining()...)
	return n, nil, true
}
