package ffi

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSignatureOutParams(t *testing.T) {
	sig, err := ParseSignature(
		"int EN_getnodevalue(EN_Project ph, int index, int property, double *value);")
	require.NoError(t, err)

	require.Equal(t, "EN_getnodevalue", sig.Name)
	require.Equal(t, 4, sig.NumArgs())
	require.Equal(t, reflect.TypeOf(int32(0)), sig.ret)
	require.Equal(t, []reflect.Type{
		uintptrType,
		reflect.TypeOf(int32(0)),
		reflect.TypeOf(int32(0)),
		uintptrType,
	}, sig.args)
}

func TestParseSignatureValueParams(t *testing.T) {
	sig, err := ParseSignature("int ENsetnodevalue(int index, int code, float value);")
	require.NoError(t, err)

	require.Equal(t, []reflect.Type{
		reflect.TypeOf(int32(0)),
		reflect.TypeOf(int32(0)),
		reflect.TypeOf(float32(0)),
	}, sig.args)
}

func TestParseSignatureLongIsPlatformWord(t *testing.T) {
	sig, err := ParseSignature("int ENrunH(long t);")
	require.NoError(t, err)
	require.Equal(t, []reflect.Type{cLongType()}, sig.args)
}

func TestParseSignatureVoidParamList(t *testing.T) {
	sig, err := ParseSignature("int ENclose(void);")
	require.NoError(t, err)
	require.Equal(t, 0, sig.NumArgs())
}

func TestParseSignatureUnnamedParams(t *testing.T) {
	sig, err := ParseSignature("int ENgettimeparam(int, long *);")
	require.NoError(t, err)
	require.Equal(t, []reflect.Type{reflect.TypeOf(int32(0)), uintptrType}, sig.args)
}

func TestParseSignatureFunctionPointerParam(t *testing.T) {
	sig, err := ParseSignature(
		"int ENsetreportcallback(EN_Project ph, void (*callback)(void *, char *));")
	require.NoError(t, err)
	require.Equal(t, []reflect.Type{uintptrType, uintptrType}, sig.args)
}

func TestParseSignatureQualifiers(t *testing.T) {
	sig, err := ParseSignature(
		"int __stdcall ENaddpattern(const char *id, unsigned long n);")
	require.NoError(t, err)
	require.Equal(t, "ENaddpattern", sig.Name)
	require.Equal(t, []reflect.Type{uintptrType, cULongType()}, sig.args)
}

func TestParseSignatureUnknownTypeFails(t *testing.T) {
	_, err := ParseSignature("int ENfoo(widget_t w);")
	require.Error(t, err)

	var declErr *DeclError
	require.ErrorAs(t, err, &declErr)
	require.Contains(t, declErr.Proto, "ENfoo")
}

func TestParseSignatureFuncType(t *testing.T) {
	sig, err := ParseSignature("int MSXstep(double *t, long *tleft);")
	require.NoError(t, err)

	fn := sig.Type()
	require.Equal(t, reflect.Func, fn.Kind())
	require.Equal(t, 2, fn.NumIn())
	require.Equal(t, 1, fn.NumOut())
	require.Equal(t, reflect.TypeOf(int32(0)), fn.Out(0))
}
