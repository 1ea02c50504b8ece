package timex

import (
	"testing"
	"time"
)

func TestCivilRoundTrip(t *testing.T) {
	for _, sec := range []int64{0, 1735781045, 951782399, 4102444799} {
		y, mo, d, h, mi, s := CivilFromUnix(sec)
		if got := UnixFromCivil(y, mo, d, h, mi, s); got != sec {
			t.Fatalf("round trip %d -> %d", sec, got)
		}
	}
}

func TestISO8601(t *testing.T) {
	type C struct {
		sec  int64
		want string
	}
	for _, c := range []C{
		{1735781045, "2025-01-02T01:24:05Z"},
		{0, "1970-01-01T00:00:00Z"},
		{951782399, "2000-02-28T23:59:59Z"},
	} {
		y, mo, d, h, mi, s := CivilFromUnix(c.sec)
		got := ISO8601(y, mo, d, h, mi, s)
		if got != c.want {
			t.Fatalf("ISO8601(%d) = %q, want %q", c.sec, got, c.want)
		}
		// Cross-check against the reference formatter.
		ref := time.Unix(c.sec, 0).UTC().Format("2006-01-02T15:04:05Z")
		if got != ref {
			t.Fatalf("ISO8601(%d) = %q, reference %q", c.sec, got, ref)
		}
	}
}
