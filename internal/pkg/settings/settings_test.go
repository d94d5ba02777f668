package settings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mapStore map[string]string

func (s mapStore) GetValue(key string) (string, error) {
	v, ok := s[key]
	if !ok {
		return "", errors.New("record not found")
	}
	return v, nil
}

func TestProviderDefaults(t *testing.T) {
	p := NewProvider(mapStore{})

	assert.Equal(t, DefaultQrDurationSeconds, p.QrDurationSeconds())
	assert.Equal(t, DefaultQrReentryMinutes, p.QrReentryMinutes())
	assert.Equal(t, DefaultMorosityToleranceDays, p.MorosityToleranceDays())
	assert.Equal(t, DefaultPartialDeadlineDays, p.PartialPaymentsDeadlineDays())
	assert.Equal(t, DefaultPartialGraceDays, p.PartialPaymentsGraceDays())
	assert.False(t, p.PartialPaymentsEnabled())
	assert.False(t, p.PartialPaymentsAllowAccess())
	assert.True(t, p.RequirePaymentToActivate())
}

func TestProviderStoredValues(t *testing.T) {
	p := NewProvider(mapStore{
		KeyQrDurationSeconds:      "60",
		KeyQrReentryMinutes:       "5",
		KeyMorosityToleranceDays:  "10",
		KeyPartialPaymentsEnabled: "true",
		KeyPartialAllowAccess:     "1",
	})

	assert.Equal(t, 60, p.QrDurationSeconds())
	assert.Equal(t, 5, p.QrReentryMinutes())
	assert.Equal(t, 10, p.MorosityToleranceDays())
	assert.True(t, p.PartialPaymentsEnabled())
	assert.True(t, p.PartialPaymentsAllowAccess())
}

func TestProviderGarbageFallsBackToDefault(t *testing.T) {
	p := NewProvider(mapStore{
		KeyQrDurationSeconds:      "soon",
		KeyPartialPaymentsEnabled: "maybe",
	})

	assert.Equal(t, DefaultQrDurationSeconds, p.QrDurationSeconds())
	assert.False(t, p.PartialPaymentsEnabled())
}
