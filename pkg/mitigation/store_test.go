// Copyright 2026 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mitigation

import (
	"errors"
	"testing"

	"gvisor.dev/mitigations/pkg/sync"
)

func TestStoreDefault(t *testing.T) {
	s := NewStore()
	if got := s.Load(); got != Auto {
		t.Errorf("Load() = %#x, want Auto", uint64(got))
	}
	if !s.ClearResiduals() {
		t.Errorf("ClearResiduals() = false by default")
	}
}

func TestStoreUpdate(t *testing.T) {
	s := NewStore()
	for _, tc := range []struct {
		arg       string
		residuals bool
	}{
		{arg: "auto,noresiduals", residuals: false},
		{arg: "residuals", residuals: true},
		{arg: "off", residuals: false},
		{arg: "auto", residuals: true},
	} {
		mask, err := s.Update(tc.arg)
		if err != nil {
			t.Fatalf("Update(%q) failed: %v", tc.arg, err)
		}
		if got := s.Load(); got != mask {
			t.Errorf("Load() after Update(%q) = %#x, want %#x", tc.arg, uint64(got), uint64(mask))
		}
		if got := s.Enabled(ClearResiduals); got != tc.residuals {
			t.Errorf("Enabled(%v) after Update(%q) = %t, want %t", ClearResiduals, tc.arg, got, tc.residuals)
		}
	}
}

func TestStoreUpdateFailureLeavesMask(t *testing.T) {
	for _, initial := range []string{"auto", "off", "residuals", "auto,noresiduals"} {
		for _, bad := range []string{"bogus", "auto,bogus", "residuals,auto", "off,off"} {
			s := NewStore()
			if _, err := s.Update(initial); err != nil {
				t.Fatalf("Update(%q) failed: %v", initial, err)
			}
			before := s.Load()
			if _, err := s.Update(bad); !errors.Is(err, ErrInvalidDirective) {
				t.Errorf("Update(%q) = %v, want ErrInvalidDirective", bad, err)
			}
			if after := s.Load(); after != before {
				t.Errorf("Update(%q) changed mask from %#x to %#x", bad, uint64(before), uint64(after))
			}
		}
	}
}

// TestStoreConcurrentReaders checks that readers only ever observe masks that
// were published in full.
func TestStoreConcurrentReaders(t *testing.T) {
	s := NewStore()
	valid := map[Mask]bool{
		Auto:              true,
		Auto &^ residuals: true,
		residuals:         true,
		Off:               true,
	}
	args := []string{"auto,noresiduals", "residuals", "off", "auto", "bogus"}

	var wg sync.WaitGroup
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				if m := s.Load(); !valid[m] {
					t.Errorf("Load() observed unpublished mask %#x", uint64(m))
					return
				}
				_ = s.ClearResiduals()
			}
		}()
	}

	for i := 0; i < 5000; i++ {
		s.Update(args[i%len(args)])
	}
	close(done)
	wg.Wait()
}

func BenchmarkStoreEnabled(b *testing.B) {
	s := NewStore()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = s.Enabled(ClearResiduals)
		}
	})
}
