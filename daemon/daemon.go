// daemon.go - daemon base for services.
// Copyright (C) 2019  Jedrzej Stuczynski.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package daemon defines common structure for all daemonizable services.
package daemon

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
)

// Service is a long running process that can be stopped from the outside.
type Service interface {
	Shutdown()
	Wait()
}

// StartUpFunc creates and starts the service.
type StartUpFunc func() (Service, error)

// Start prepares the process environment, starts the service and blocks until
// it terminates, either on its own or after SIGINT or SIGTERM.
func Start(startFn StartUpFunc) error {
	const PtrSize = 32 << uintptr(^uintptr(0)>>63)
	if PtrSize != 64 || strconv.IntSize != 64 {
		return fmt.Errorf(
			"the binary seems to not have been compiled in 64bit mode. Runtime pointer size: %v, Int size: %v",
			PtrSize,
			strconv.IntSize,
		)
	}

	syscall.Umask(0077)

	// Ensure that a sane number of OS threads is allowed.
	if os.Getenv("GOMAXPROCS") == "" {
		// But only if the user isn't trying to override it.
		nProcs := runtime.GOMAXPROCS(0)
		nCPU := runtime.NumCPU()
		if nProcs < nCPU {
			runtime.GOMAXPROCS(nCPU)
		}
	}

	// Setup the signal handling.
	haltCh := make(chan os.Signal, 1)
	signal.Notify(haltCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(haltCh)

	service, err := startFn()
	if err != nil {
		return err
	}
	run(service, haltCh)
	return nil
}

// run halts the service gracefully once a signal arrives on haltCh and
// waits for the service to explode or be terminated.
func run(service Service, haltCh <-chan os.Signal) {
	defer service.Shutdown()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-haltCh:
			service.Shutdown()
		case <-done:
		}
	}()

	service.Wait()
}
