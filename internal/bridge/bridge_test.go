package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/tensorize/internal/npy"
	"github.com/born-ml/tensorize/internal/tensor"
)

// newFilled creates a host tensor whose bytes hold a deterministic
// pattern, so round-trip comparisons catch any byte shuffling.
func newFilled(t *testing.T, shape tensor.Shape, dt tensor.DataType) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, dt, tensor.CPU)
	require.NoError(t, err)
	data := raw.Data()
	for i := range data {
		data[i] = byte(i*7 + 3)
	}
	return raw
}

func TestRoundTripSymmetric(t *testing.T) {
	cases := []struct {
		dtype tensor.DataType
		descr string
	}{
		{tensor.Float16, "<f2"},
		{tensor.Float32, "<f4"},
		{tensor.Float64, "<f8"},
		{tensor.Complex64, "<c8"},
		{tensor.Complex128, "<c16"},
		{tensor.Int8, "|i1"},
		{tensor.Int16, "<i2"},
		{tensor.Int32, "<i4"},
		{tensor.Int64, "<i8"},
		{tensor.Uint8, "|u1"},
		{tensor.Bool, "|b1"},
	}
	for _, tc := range cases {
		t.Run(tc.dtype.String(), func(t *testing.T) {
			orig := newFilled(t, tensor.Shape{2, 3}, tc.dtype)

			ta, err := FromTensor(orig)
			require.NoError(t, err)
			assert.Equal(t, tc.descr, ta.ArrayDType)
			assert.Equal(t, tc.dtype.CanonicalName(), ta.TensorDType)
			assert.False(t, ta.IsOpaque())

			decoded, err := ta.ToTensor()
			require.NoError(t, err)
			assert.Equal(t, tc.dtype, decoded.DType())
			assert.True(t, orig.Shape().Equal(decoded.Shape()))
			assert.Equal(t, orig.Data(), decoded.Data())

			// Zero copy: the decoded tensor aliases the original buffer.
			assert.Same(t, &orig.Data()[0], &decoded.Data()[0])
		})
	}
}

func TestRoundTripAsymmetric(t *testing.T) {
	cases := []struct {
		dtype  tensor.DataType
		opaque string
	}{
		{tensor.BFloat16, "<V2"},
		{tensor.Complex32, "<V4"},
	}
	for _, tc := range cases {
		t.Run(tc.dtype.String(), func(t *testing.T) {
			orig := newFilled(t, tensor.Shape{4}, tc.dtype)

			ta, err := FromTensor(orig)
			require.NoError(t, err)
			assert.Equal(t, tc.opaque, ta.ArrayDType)
			assert.Equal(t, tc.dtype.CanonicalName(), ta.TensorDType)
			assert.True(t, ta.IsOpaque())
			// The staging array masquerades as a plain integer array.
			assert.Equal(t, DecoderDType(tc.opaque), ta.Data.DescrString())

			decoded, err := ta.ToTensor()
			require.NoError(t, err)
			assert.Equal(t, tc.dtype, decoded.DType())
			assert.True(t, orig.Shape().Equal(decoded.Shape()))
			assert.Equal(t, orig.Data(), decoded.Data())
			assert.Same(t, &orig.Data()[0], &decoded.Data()[0])
		})
	}
}

func TestOpacityConsistency(t *testing.T) {
	for dt, descr := range nativeDescrs {
		assert.False(t, IsOpaque(descr), "symmetric dtype %s", dt)
	}
	assert.True(t, IsOpaque("<V2"))
	assert.True(t, IsOpaque("|V1"))
	assert.False(t, IsOpaque("not-a-descr"))
	assert.False(t, IsOpaque(""))
}

func TestUnsupportedRejection(t *testing.T) {
	quantized := []tensor.DataType{
		tensor.QInt8, tensor.QUInt8, tensor.QInt32, tensor.QUInt4x2, tensor.QUInt2x4,
	}
	for _, dt := range quantized {
		assert.True(t, IsUnsupported(dt), "dtype %s", dt)
		orig := newFilled(t, tensor.Shape{2}, dt)
		ta, err := FromTensor(orig)
		assert.ErrorIs(t, err, ErrUnsupportedDType, "dtype %s", dt)
		assert.Nil(t, ta, "dtype %s", dt)
	}
	assert.False(t, IsUnsupported(tensor.Float32))
	assert.False(t, IsUnsupported(tensor.BFloat16), "asymmetric but serializable")
}

func TestWidthRejection(t *testing.T) {
	for _, size := range []int{3, 16} {
		_, err := intermediateDType(size)
		assert.ErrorIs(t, err, ErrUnrepresentableWidth, "width %d", size)
	}
	for _, size := range []int{1, 2, 4, 8} {
		inter, err := intermediateDType(size)
		require.NoError(t, err)
		assert.Equal(t, size, inter.Size())
	}

	// End to end: a persisted opaque descr with an unsupported width
	// fails at decode, not silently.
	buf := make([]byte, 12)
	ta, err := FromBuffer("<V3", tensor.Float32.CanonicalName(), []int{4}, buf, 0)
	require.NoError(t, err)
	_, err = ta.ToTensor()
	assert.ErrorIs(t, err, ErrUnrepresentableWidth)
}

func TestResolveDType(t *testing.T) {
	dt, err := ResolveDType("born.int8")
	require.NoError(t, err)
	assert.Equal(t, tensor.Int8, dt)

	// Fast path: asymmetric names skip parsing.
	dt, err = ResolveDType("born.bfloat16")
	require.NoError(t, err)
	assert.Equal(t, tensor.BFloat16, dt)

	_, err = ResolveDType("")
	assert.ErrorIs(t, err, ErrMissingDTypeName)

	for _, name := range []string{
		"bogus",           // no namespace separator
		"torch.int8",      // wrong namespace
		"born.",           // empty identifier
		"born.not_a_type", // unknown identifier
		"born.CPU",        // resolves to a device, not a dtype
	} {
		_, err := ResolveDType(name)
		assert.ErrorIs(t, err, ErrInvalidDTypeName, "name %q", name)
	}
}

func TestBufferDecode(t *testing.T) {
	buf := make([]byte, 16)
	for i := range buf {
		buf[i] = byte(0xA0 + i)
	}

	ta, err := FromBuffer("<V4", "born.complex32", []int{4}, buf, 0)
	require.NoError(t, err)
	assert.True(t, ta.IsOpaque())

	decoded, err := ta.ToTensor()
	require.NoError(t, err)
	assert.Equal(t, tensor.Complex32, decoded.DType())
	assert.Equal(t, 4, decoded.NumElements())
	assert.Equal(t, buf, decoded.Data())
}

func TestBufferDecodeOffset(t *testing.T) {
	buf := make([]byte, 24)
	for i := range buf {
		buf[i] = byte(i)
	}

	ta, err := FromBuffer("<f4", "born.float32", []int{4}, buf, 8)
	require.NoError(t, err)
	decoded, err := ta.ToTensor()
	require.NoError(t, err)
	assert.Equal(t, buf[8:], decoded.Data())
}

func TestOpaqueWithoutNameFails(t *testing.T) {
	buf := make([]byte, 8)
	ta, err := FromBuffer("<V2", "", []int{4}, buf, 0)
	require.NoError(t, err)
	_, err = ta.ToTensor()
	assert.ErrorIs(t, err, ErrMissingDTypeName)
}

func TestFromArray(t *testing.T) {
	buf := make([]byte, 12)
	arr, err := npy.New("<f4", []int{3}, buf, 0)
	require.NoError(t, err)

	ta, err := FromArray(arr)
	require.NoError(t, err)
	assert.Equal(t, "<f4", ta.ArrayDType)
	assert.Equal(t, "born.float32", ta.TensorDType)
	assert.Same(t, arr, ta.Data)

	// Native byte order normalizes to the pinned little-endian form.
	arr, err = npy.New("=f4", []int{3}, buf, 0)
	require.NoError(t, err)
	ta, err = FromArray(arr)
	require.NoError(t, err)
	assert.Equal(t, "born.float32", ta.TensorDType)
}

func TestFromArrayUnrepresentable(t *testing.T) {
	// uint32 has no tensor dtype; letting it through would write a
	// file nothing can decode.
	buf := make([]byte, 12)
	arr, err := npy.New("<u4", []int{3}, buf, 0)
	require.NoError(t, err)
	_, err = FromArray(arr)
	assert.ErrorIs(t, err, ErrUnrepresentableDType)
}

func TestDecoderDType(t *testing.T) {
	assert.Equal(t, "<i2", DecoderDType("<V2"))
	assert.Equal(t, "<i4", DecoderDType("<V4"))
	assert.Equal(t, "|i1", DecoderDType("|V1"))
	assert.Equal(t, "<f4", DecoderDType("<f4"))
	assert.Equal(t, "|u1", DecoderDType("|u1"))
}

func TestFromTensorDetaches(t *testing.T) {
	orig := newFilled(t, tensor.Shape{2}, tensor.Float32)
	orig.SetRequiresGrad(true)

	ta, err := FromTensor(orig)
	require.NoError(t, err)
	decoded, err := ta.ToTensor()
	require.NoError(t, err)
	assert.False(t, decoded.RequiresGrad())
	assert.True(t, orig.RequiresGrad(), "the source tensor is unchanged")
}

func TestTablesConsistent(t *testing.T) {
	// Every unsupported dtype is asymmetric.
	for dt := range unsupportedDTypes {
		assert.True(t, asymmetricDTypes[dt], "dtype %s", dt)
	}
	// No asymmetric dtype has a native descr.
	for dt := range asymmetricDTypes {
		_, ok := nativeDescrs[dt]
		assert.False(t, ok, "dtype %s", dt)
	}
	// Supported asymmetric widths all have an integer stand-in.
	for dt := range asymmetricDTypes {
		if unsupportedDTypes[dt] {
			continue
		}
		_, err := intermediateDType(dt.Size())
		assert.NoError(t, err, "dtype %s", dt)
	}
}
