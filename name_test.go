package dnswire_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvisser/dnswire"
)

func TestParseDomainName(t *testing.T) {
	n, err := dnswire.ParseDomainName("www.example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"www", "example", "com"}, n.Labels())
	assert.Equal(t, "www.example.com.", n.String())
	assert.Equal(t, 17, n.WireLength())
}

func TestParseDomainName_TrailingDot(t *testing.T) {
	dotted, err := dnswire.ParseDomainName("example.com.")
	require.NoError(t, err)
	bare, err2 := dnswire.ParseDomainName("example.com")
	require.NoError(t, err2)
	assert.True(t, dotted.Equal(bare))
}

func TestParseDomainName_Root(t *testing.T) {
	n, err := dnswire.ParseDomainName(".")
	require.NoError(t, err)
	assert.True(t, n.IsRoot())
	assert.Equal(t, ".", n.String())
	assert.Equal(t, 1, n.WireLength())

	n, err = dnswire.ParseDomainName("")
	require.NoError(t, err)
	assert.True(t, n.IsRoot())
}

func TestParseDomainName_EmptyLabel(t *testing.T) {
	_, err := dnswire.ParseDomainName("a..b")
	require.ErrorIs(t, err, dnswire.ErrFieldValueOutOfRange)
}

func TestParseDomainName_LabelTooLong(t *testing.T) {
	_, err := dnswire.ParseDomainName(strings.Repeat("a", 64) + ".com")
	require.ErrorIs(t, err, dnswire.ErrFieldValueOutOfRange)

	n, err := dnswire.ParseDomainName(strings.Repeat("a", 63) + ".com")
	require.NoError(t, err)
	assert.Len(t, n.Labels(), 2)
}

func TestParseDomainName_NameTooLong(t *testing.T) {
	// Four 63-byte labels: 4*64+1 = 257 > 255 on the wire.
	label := strings.Repeat("a", 63)
	_, err := dnswire.ParseDomainName(strings.Join([]string{label, label, label, label}, "."))
	require.ErrorIs(t, err, dnswire.ErrFieldValueOutOfRange)
}

func TestParseDomainName_IDNA(t *testing.T) {
	n, err := dnswire.ParseDomainName("bücher.example")
	require.NoError(t, err)
	assert.Equal(t, "xn--bcher-kva.example.", n.String())
}

func TestNewDomainName_TrailingEmptyLabel(t *testing.T) {
	n, err := dnswire.NewDomainName([]string{"example", "com", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"example", "com"}, n.Labels())
}

func TestDomainName_EqualCaseInsensitive(t *testing.T) {
	a := dnswire.MustParseDomainName("Example.COM")
	b := dnswire.MustParseDomainName("example.com")
	c := dnswire.MustParseDomainName("example.org")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(dnswire.MustParseDomainName("www.example.com")))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "example.com", dnswire.NormalizeName("Example.COM."))
	assert.Equal(t, "example.com", dnswire.NormalizeName("example.com"))
	assert.Equal(t, "", dnswire.NormalizeName("."))
}
