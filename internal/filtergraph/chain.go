package filtergraph

import (
	"fmt"
	"strconv"
	"strings"
)

// Chain builds one linear run of comma-joined filters between an input
// pad label and an output pad label.
type Chain struct {
	in      string
	out     string
	filters []string
}

// NewChain creates a chain reading from pad in and writing to pad out.
func NewChain(in, out string) *Chain {
	return &Chain{in: in, out: out}
}

// Add appends a raw filter string.
func (c *Chain) Add(filter string) *Chain {
	c.filters = append(c.filters, filter)
	return c
}

// Addf appends a formatted filter string.
func (c *Chain) Addf(format string, args ...any) *Chain {
	c.filters = append(c.filters, fmt.Sprintf(format, args...))
	return c
}

// String renders the chain as "[in]f1,f2[out]". An empty chain passes
// frames through unchanged via the null filter.
func (c *Chain) String() string {
	filters := c.filters
	if len(filters) == 0 {
		filters = []string{"null"}
	}
	return fmt.Sprintf("[%s]%s[%s]", c.in, strings.Join(filters, ","), c.out)
}

// Graph joins chains into a complete filter_complex expression.
func Graph(chains ...*Chain) string {
	parts := make([]string, len(chains))
	for i, c := range chains {
		parts[i] = c.String()
	}
	return strings.Join(parts, ";")
}

// formatNum renders a value as a plain decimal with trailing zeros
// trimmed, so a 4-second duration appears as "4" inside expressions.
func formatNum(v float64) string {
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
