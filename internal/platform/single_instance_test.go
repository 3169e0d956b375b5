package platform

import "testing"

func TestAcquireSingleInstance(t *testing.T) {
	guard, err := AcquireSingleInstance("lyriclooper-test")
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	defer guard.Release()

	if guard.Address() == "" {
		t.Error("guard has no address")
	}

	if _, err := AcquireSingleInstance("lyriclooper-test"); err != ErrAlreadyRunning {
		t.Errorf("second acquire error = %v, want ErrAlreadyRunning", err)
	}
}

func TestAcquireSingleInstance_ReleaseFreesPort(t *testing.T) {
	guard, err := AcquireSingleInstance("lyriclooper-release-test")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := guard.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	again, err := AcquireSingleInstance("lyriclooper-release-test")
	if err != nil {
		t.Fatalf("reacquire after release: %v", err)
	}
	again.Release()
}

func TestPortFromName_StableAndInRange(t *testing.T) {
	a := portFromName("LyricLooper")
	b := portFromName("LyricLooper")
	if a != b {
		t.Errorf("port not stable: %d vs %d", a, b)
	}
	if a < 20000 || a > 39999 {
		t.Errorf("port %d outside expected range", a)
	}
}
