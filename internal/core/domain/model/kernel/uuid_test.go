package kernel_test

import (
	"encoding/json"
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	id1 := kernel.NewUUID()
	id2 := kernel.NewUUID()

	require.NoError(t, id1.Validate())
	assert.False(t, id1.IsEqual(id2))
	assert.False(t, id1.IsZero())
}

func TestParseUUID(t *testing.T) {
	const canonical = "550e8400-e29b-41d4-a716-446655440000"

	testCases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"canonical", canonical, false},
		{"braced", "{" + canonical + "}", false},
		{"urn", "urn:uuid:" + canonical, false},
		{"empty", "", true},
		{"garbage", "not-a-uuid", true},
		{"nil uuid", uuid.Nil.String(), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := kernel.ParseUUID(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, canonical, id.String())
		})
	}
}

func TestUUIDFrom(t *testing.T) {
	raw := uuid.New()

	id, err := kernel.UUIDFrom(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, id.Raw())

	_, err = kernel.UUIDFrom(uuid.Nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestUUID_ZeroValueIsInvalid(t *testing.T) {
	var id kernel.UUID

	assert.True(t, id.IsZero())
	require.ErrorIs(t, id.Validate(), errs.ErrValueIsRequired)
}

func TestMustParseUUID_PanicsOnGarbage(t *testing.T) {
	assert.Panics(t, func() { kernel.MustParseUUID("nope") })
}

func TestUUID_TextRoundTrip(t *testing.T) {
	id := kernel.MustParseUUID("6f1c3b1e-0c55-4d7e-9a4f-1f5a8c2a9b10")

	raw, err := json.Marshal(struct {
		ID kernel.UUID `json:"id"`
	}{ID: id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"6f1c3b1e-0c55-4d7e-9a4f-1f5a8c2a9b10"}`, string(raw))

	var back kernel.UUID
	require.NoError(t, back.UnmarshalText([]byte(id.String())))
	assert.True(t, back.IsEqual(id))
	assert.Error(t, back.UnmarshalText([]byte("not-a-uuid")))
}
