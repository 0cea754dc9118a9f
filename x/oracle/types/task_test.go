package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaskRoundTrip(t *testing.T) {
	fetch, err := NewHttpGetTask("https://api.example.com/btc")
	require.NoError(t, err)
	parse, err := NewJsonParseTask("data.amount")
	require.NoError(t, err)

	tests := []struct {
		name string
		task Task
	}{
		{"http get", fetch},
		{"json parse", parse},
		{"uint256", Task{Kind: TaskUint256}},
		{"uint128", Task{Kind: TaskUint128}},
		{"uint32", Task{Kind: TaskUint32}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bz := tc.task.Encode()
			require.Len(t, bz, TaskLen)

			decoded, err := DecodeTask(bz[:])
			require.NoError(t, err)
			require.Equal(t, tc.task, decoded)
		})
	}
}

func TestTaskWireLayout(t *testing.T) {
	parse, err := NewJsonParseTask("a.b")
	require.NoError(t, err)
	bz := parse.Encode()

	require.Equal(t, []byte{1, 0}, bz[:2])
	require.Equal(t, []byte("a.b"), bz[2:5])
	for _, b := range bz[2+PathLen:] {
		require.Zero(t, b)
	}

	cast := Task{Kind: TaskUint32}.Encode()
	require.Equal(t, []byte{4, 0}, cast[:2])
	for _, b := range cast[2:] {
		require.Zero(t, b)
	}
}

func TestDecodeTaskErrors(t *testing.T) {
	_, err := DecodeTask(make([]byte, TaskLen-1))
	require.ErrorIs(t, err, ErrTruncated)

	bz := make([]byte, TaskLen)
	bz[0] = 5
	_, err = DecodeTask(bz)
	require.ErrorIs(t, err, ErrUnknownVariant)

	bz[0], bz[1] = 0, 1
	_, err = DecodeTask(bz)
	require.ErrorIs(t, err, ErrUnknownVariant)
}

func TestDecodeTaskIgnoresPadding(t *testing.T) {
	bz := make([]byte, TaskLen)
	bz[0] = byte(TaskJsonParse)
	copy(bz[2:], "price")
	bz[TaskLen-1] = 0xAA

	task, err := DecodeTask(bz)
	require.NoError(t, err)
	require.Equal(t, "price", task.Path())

	bz[0] = byte(TaskUint128)
	task, err = DecodeTask(bz)
	require.NoError(t, err)
	require.Equal(t, Task{Kind: TaskUint128}, task)
}

func TestTaskFieldWidths(t *testing.T) {
	_, err := NewHttpGetTask(strings.Repeat("x", URLLen))
	require.NoError(t, err)
	_, err = NewHttpGetTask(strings.Repeat("x", URLLen+1))
	require.ErrorIs(t, err, ErrFieldTooLong)

	_, err = NewJsonParseTask(strings.Repeat("p", PathLen+1))
	require.ErrorIs(t, err, ErrFieldTooLong)

	_, err = NewCoerceTask(TaskHttpGet)
	require.ErrorIs(t, err, ErrUnknownVariant)
}

func TestCoerceWidths(t *testing.T) {
	for _, width := range []int{32, 128, 256} {
		kind, err := CoerceKindForWidth(width)
		require.NoError(t, err)
		require.Equal(t, width, kind.Width())
		require.True(t, kind.IsCoerce())
	}
	_, err := CoerceKindForWidth(64)
	require.ErrorIs(t, err, ErrUnknownVariant)
	require.Equal(t, TaskKind(2), TaskUint256)
}
