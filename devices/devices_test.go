// SPDX-License-Identifier: EPL-2.0

package devices

import (
	"errors"
	"fmt"
	"testing"
)

func TestOpen(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		d, err := Open(name)
		if err != nil {
			t.Fatalf("Open(%q) error = %v", name, err)
		}
		if got := fmt.Sprint(d); got != name {
			t.Errorf("Open(%q) built %q", name, got)
		}
	}

	if _, err := Open(" NULL "); err != nil {
		t.Errorf("Open(\" NULL \") error = %v", err)
	}
	if _, err := Open("jack"); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open(\"jack\") error = %v, want ErrUnknownBackend", err)
	}
}
