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

package daemon

import (
	"errors"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	haltOnce  sync.Once
	haltedCh  chan struct{}
	mu        sync.Mutex
	shutdowns int
}

func newFakeService() *fakeService {
	return &fakeService{haltedCh: make(chan struct{})}
}

func (s *fakeService) Shutdown() {
	s.mu.Lock()
	s.shutdowns++
	s.mu.Unlock()
	s.haltOnce.Do(func() { close(s.haltedCh) })
}

func (s *fakeService) Wait() {
	<-s.haltedCh
}

func (s *fakeService) shutdownCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdowns
}

func TestRun_HaltsOnSignal(t *testing.T) {
	service := newFakeService()
	haltCh := make(chan os.Signal, 1)

	finished := make(chan struct{})
	go func() {
		run(service, haltCh)
		close(finished)
	}()

	haltCh <- syscall.SIGTERM
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("service was not halted by the signal")
	}
	assert.True(t, service.shutdownCount() >= 1)
}

func TestRun_ServiceStopsOnItsOwn(t *testing.T) {
	service := newFakeService()
	haltCh := make(chan os.Signal, 1)

	go func() {
		time.Sleep(10 * time.Millisecond)
		service.Shutdown()
	}()
	run(service, haltCh)

	assert.Equal(t, 2, service.shutdownCount())
}

func TestStart_StartUpFailure(t *testing.T) {
	startErr := errors.New("could not start")
	err := Start(func() (Service, error) { return nil, startErr })
	assert.True(t, errors.Is(err, startErr))
}
