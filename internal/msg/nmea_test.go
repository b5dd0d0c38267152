package msg

import (
	"testing"

	nmea "github.com/adrianmo/go-nmea"
	"github.com/stretchr/testify/assert"
)

const ggaSentence = "$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47\r\n"

func TestNmeaSentenceFields(t *testing.T) {
	m, rest, err := ParseReadNmea([]byte(ggaSentence))
	assert.NoError(t, err)
	assert.Empty(t, rest)

	s, err := m.Sentence()
	assert.NoError(t, err)
	assert.Equal(t, nmea.TypeGGA, s.DataType())

	gga := s.(nmea.GGA)
	assert.Equal(t, int64(8), gga.NumSatellites)
}

func TestNmeaRejectsNonAscii(t *testing.T) {
	raw := []byte("$GP\xC3\xA9GA,\r\n")
	_, _, err := ParseReadNmea(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestNmeaUsageNeedsTerminator(t *testing.T) {
	_, ok := NmeaMessageUsage([]byte("$GPGGA,123519"))
	assert.False(t, ok)

	n, ok := NmeaMessageUsage([]byte(ggaSentence))
	assert.True(t, ok)
	assert.Equal(t, len(ggaSentence), n)
}
