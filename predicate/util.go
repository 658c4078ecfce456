package predicate

import "fmt"

func errLenMismatch(a, b int) error {
	return fmt.Errorf("distance kernel: vector length mismatch %d != %d", a, b)
}

func errUnknownKernel(name string) error {
	return fmt.Errorf("distance kernel: unknown kernel %q", name)
}
