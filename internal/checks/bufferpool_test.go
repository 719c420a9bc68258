package checks

import "testing"

func TestGetScratch_ReturnsExactLength(t *testing.T) {
	buf := GetScratch(5)
	if len(buf) != 5 {
		t.Errorf("len(GetScratch(5)) = %d, want 5", len(buf))
	}
	ReleaseScratch(buf)
}

func TestGetScratch_GrowsBeyondPooledCapacity(t *testing.T) {
	buf := GetScratch(1024)
	if len(buf) != 1024 {
		t.Errorf("len(GetScratch(1024)) = %d, want 1024", len(buf))
	}
	ReleaseScratch(buf)
}

func TestReleaseScratch_AllowsReuse(t *testing.T) {
	buf := GetScratch(8)
	ReleaseScratch(buf)
	again := GetScratch(8)
	if len(again) != 8 {
		t.Errorf("len(GetScratch(8)) after release = %d, want 8", len(again))
	}
}
