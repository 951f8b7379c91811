package dnswire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvisser/dnswire"
)

func TestParseTypeDef_Basic(t *testing.T) {
	def, err := dnswire.ParseTypeDef([]dnswire.FieldSpec{
		{Name: "preference", Kind: dnswire.KindShort},
		{Name: "exchange", Kind: dnswire.KindDomainName},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, def.Len())

	fields := def.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "preference", fields[0].Name)
	assert.Equal(t, dnswire.KindShort, fields[0].Kind)
	assert.False(t, fields[0].AllowsMultiple)

	i, ok := def.IndexOf("Exchange")
	require.True(t, ok, "lookup should be case-insensitive")
	assert.Equal(t, 1, i)

	_, ok = def.IndexOf("missing")
	assert.False(t, ok)
}

func TestParseTypeDef_Quantifiers(t *testing.T) {
	tests := []struct {
		decl     string
		multiple bool
		minimum  int
	}{
		{"txt-data", false, 0},
		{"txt-data*", true, 0},
		{"txt-data*2", true, 2},
		{"txt-data+", true, 1},
		{"txt-data+3", true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.decl, func(t *testing.T) {
			def, err := dnswire.ParseTypeDef([]dnswire.FieldSpec{
				{Name: tt.decl, Kind: dnswire.KindCharacterString},
			}, nil)
			require.NoError(t, err)
			f, ok := def.Field(0)
			require.True(t, ok)
			assert.Equal(t, "txt-data", f.Name)
			assert.Equal(t, tt.multiple, f.AllowsMultiple)
			assert.Equal(t, tt.minimum, f.Minimum)
		})
	}
}

func TestParseTypeDef_QuantifierOnNonFinalField(t *testing.T) {
	_, err := dnswire.ParseTypeDef([]dnswire.FieldSpec{
		{Name: "strings*", Kind: dnswire.KindCharacterString},
		{Name: "tail", Kind: dnswire.KindShort},
	}, nil)
	require.ErrorIs(t, err, dnswire.ErrInvalidFieldDefinition)
}

func TestParseTypeDef_DuplicateName(t *testing.T) {
	_, err := dnswire.ParseTypeDef([]dnswire.FieldSpec{
		{Name: "Address", Kind: dnswire.KindIPv4Address},
		{Name: "address", Kind: dnswire.KindIPv6Address},
	}, nil)
	require.ErrorIs(t, err, dnswire.ErrInvalidFieldDefinition)
}

func TestParseTypeDef_BadNameSyntax(t *testing.T) {
	for _, bad := range []string{"", "two words", "dot.name", "semi;colon", "*lead"} {
		_, err := dnswire.ParseTypeDef([]dnswire.FieldSpec{
			{Name: bad, Kind: dnswire.KindShort},
		}, nil)
		require.ErrorIs(t, err, dnswire.ErrInvalidFieldDefinition, "declaration %q", bad)
	}
}

func TestRecordData_SetAndValidate(t *testing.T) {
	def, ok := dnswire.DefaultTypes().Lookup(dnswire.TypeMX)
	require.True(t, ok)

	rd := dnswire.NewRecordData(def)
	pref, err := dnswire.NewShort(10)
	require.NoError(t, err)

	require.Error(t, rd.Validate(), "unset fields should not validate")

	require.NoError(t, rd.Set("preference", pref))
	require.NoError(t, rd.Set("exchange", dnswire.MustParseDomainName("mail.example.com")))
	require.NoError(t, rd.Validate())

	// Kind mismatch is rejected at Set time.
	err = rd.Set("preference", dnswire.MustParseDomainName("example.com"))
	require.ErrorIs(t, err, dnswire.ErrFieldValueOutOfRange)

	err = rd.Set("no-such-field", pref)
	require.ErrorIs(t, err, dnswire.ErrInvalidFieldDefinition)
}

func TestRecordData_VariadicMinimum(t *testing.T) {
	def, ok := dnswire.DefaultTypes().Lookup(dnswire.TypeTXT)
	require.True(t, ok)

	rd := dnswire.NewRecordData(def)
	require.Error(t, rd.Validate(), "TXT needs at least one string")

	cs, err := dnswire.NewCharacterString("hello")
	require.NoError(t, err)
	require.NoError(t, rd.Append("txt-data", cs))
	require.NoError(t, rd.Validate())
}

func TestTypeDef_DefaultStringify(t *testing.T) {
	def, ok := dnswire.DefaultTypes().Lookup(dnswire.TypeMX)
	require.True(t, ok)

	rd := dnswire.NewRecordData(def)
	pref, _ := dnswire.NewShort(10)
	require.NoError(t, rd.Set("preference", pref))
	require.NoError(t, rd.Set("exchange", dnswire.MustParseDomainName("mail.example.com")))

	assert.Equal(t, "10 mail.example.com.", rd.String())
}

func TestTypeDef_CustomStringify(t *testing.T) {
	def, ok := dnswire.DefaultTypes().Lookup(dnswire.TypeTXT)
	require.True(t, ok)

	rd := dnswire.NewRecordData(def)
	for _, s := range []string{"a", "bb"} {
		cs, err := dnswire.NewCharacterString(s)
		require.NoError(t, err)
		require.NoError(t, rd.Append("txt-data", cs))
	}

	assert.Equal(t, `"a" "bb"`, rd.String())
}
