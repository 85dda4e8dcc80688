package commands

import "relinker/internal/ports"

type nopObserver struct{}

func (nopObserver) Scanned(string, int, int)           {}
func (nopObserver) Rewriting(string, string, int, int) {}
func (nopObserver) PairDone(string, int)               {}

// notify returns o, or an observer that ignores everything when o is nil
func notify(o ports.ProgressObserver) ports.ProgressObserver {
	if o == nil {
		return nopObserver{}
	}
	return o
}
