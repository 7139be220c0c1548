package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenizeBasic(t *testing.T) {
	require.Equal(t, []string{"a", "b c", "d"}, Tokenize(`a "b c" d`))
}

func TestTokenizeBackslashOutsideQuotesIsLiteral(t *testing.T) {
	require.Equal(t, []string{`a\`, "b"}, Tokenize(`a\ b`))
}

func TestTokenizeEscapedNewlineInsideQuotes(t *testing.T) {
	require.Equal(t, []string{"\n"}, Tokenize(`"\n"`))
}

func TestTokenizeEscapedTabAndQuotesAndBackslash(t *testing.T) {
	require.Equal(t, []string{"a\tb\"c'd\\e"}, Tokenize(`"a\tb\"c\'d\\e"`))
}

func TestTokenizeUnknownEscapePassesThroughLiterally(t *testing.T) {
	require.Equal(t, []string{`a\xb`}, Tokenize(`"a\xb"`))
}

func TestTokenizeQuoteConflationOpenQuestion(t *testing.T) {
	// "x'y" closes on the inner ' since both quote characters toggle the
	// same single in-quote state, not POSIX-style paired quoting.
	require.Equal(t, []string{"x", "y"}, Tokenize(`"x'y"`))
}

func TestTokenizeEmptyTokensDiscarded(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, Tokenize("   a    b   "))
}

func TestTokenizeEmptyInput(t *testing.T) {
	require.Nil(t, Tokenize(""))
}

func TestTokenizeClosingQuoteEndsTokenMidWord(t *testing.T) {
	// The closing quote flushes the token even though more characters
	// follow in the same word; the opening quote does not flush on its
	// own (it only toggles state), matching the source tool exactly.
	require.Equal(t, []string{"ab", "c"}, Tokenize(`a"b"c`))
}
