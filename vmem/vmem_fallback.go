//go:build !unix && !windows

package vmem

func sysReserve(int) ([]byte, error) { return nil, ErrUnsupported }

func sysRelease([]byte) error { return ErrUnsupported }

func sysCommit([]byte, Protection) error { return ErrUnsupported }

func sysDecommit([]byte) error { return ErrUnsupported }

func sysProtect([]byte, Protection) error { return ErrUnsupported }

func sysLock([]byte) error { return ErrUnsupported }

func sysUnlock([]byte) error { return ErrUnsupported }
