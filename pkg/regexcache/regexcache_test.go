package regexcache

import "testing"

func TestGetCachesCompiledPattern(t *testing.T) {
	Clear()

	re1, err := Get(`(?i)password`)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	re2, err := Get(`(?i)password`)
	if err != nil {
		t.Fatalf("second Get returned error: %v", err)
	}

	if re1 != re2 {
		t.Error("expected identical *regexp.Regexp from cache, got distinct instances")
	}
	if Size() != 1 {
		t.Errorf("Size() = %d, want 1", Size())
	}
}

func TestGetInvalidPattern(t *testing.T) {
	Clear()

	if _, err := Get(`[unclosed`); err == nil {
		t.Error("expected error for invalid pattern, got nil")
	}
	if Size() != 0 {
		t.Errorf("invalid pattern should not be cached, Size() = %d", Size())
	}
}

func TestMustGetPanicsOnInvalid(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustGet did not panic on invalid pattern")
		}
	}()
	MustGet(`[unclosed`)
}

func TestWarmReportsFailures(t *testing.T) {
	Clear()

	errs := Warm(`ok.*`, `[bad`, `also(ok)?`)
	if len(errs) != 1 {
		t.Fatalf("Warm returned %d errors, want 1", len(errs))
	}
	if Size() != 2 {
		t.Errorf("Size() = %d after Warm, want 2", Size())
	}
}
