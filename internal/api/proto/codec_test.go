package proto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestCodec_Registered(t *testing.T) {
	t.Parallel()

	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, CodecName, c.Name())
}

func TestCodec_Values(t *testing.T) {
	t.Parallel()

	c := codec{}
	in := &SetRequest{Path: "products/u1/p1", Value: map[string]any{"name": "Widget", "stock": 5}}

	data, err := c.Marshal(in)
	require.NoError(t, err)

	var out SetRequest
	require.NoError(t, c.Unmarshal(data, &out))
	assert.Equal(t, "products/u1/p1", out.Path)
	assert.Equal(t, map[string]any{"name": "Widget", "stock": float64(5)}, out.Value)
}

func TestCodec_EmptyPayload(t *testing.T) {
	t.Parallel()

	var out Empty
	assert.NoError(t, codec{}.Unmarshal(nil, &out))
	assert.Error(t, codec{}.Unmarshal([]byte("{"), &out))
}
