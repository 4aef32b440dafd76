package status

import "sync"

// IngestorStatuses names the two ingress transports so a Snapshot can
// report each independently even when one of them is disabled.
type IngestorStatuses struct {
	TCP Status
	Nym Status
}

// WorkerPoolStatus summarizes the worker pool's size alongside the
// aggregate status of its members.
type WorkerPoolStatus struct {
	Active int
	Idle   int
	Status Status
}

// Snapshot is the plain value object returned by ServerStatus.Load, the
// supervisor's "load()" operation from the design.
type Snapshot struct {
	Server    Status
	Ingestors IngestorStatuses
	Workers   WorkerPoolStatus
}

// ServerStatus aggregates the server's own status plus the nested
// statuses of its ingestors and worker pool. Reads take a snapshot;
// writes are owned by the component being updated.
type ServerStatus struct {
	Server *Atomic

	mu          sync.RWMutex
	tcpStatus   *Atomic
	nymStatus   *Atomic
	workerCount func() (active, idle int)
	workerStat  *Atomic
}

// NewServerStatus builds a ServerStatus with the server Spawning, both
// ingestors Offline, and zero worker counts until a counter is installed
// with RegisterWorkerCounter.
func NewServerStatus() *ServerStatus {
	return &ServerStatus{
		Server:     NewAtomic(Spawning),
		tcpStatus:  NewAtomic(Offline),
		nymStatus:  NewAtomic(Offline),
		workerStat: NewAtomic(Spawning),
	}
}

// TCPStatus returns the atomic cell owned by the TCP ingestor.
func (s *ServerStatus) TCPStatus() *Atomic { return s.tcpStatus }

// NymStatus returns the atomic cell owned by the Nym ingestor.
func (s *ServerStatus) NymStatus() *Atomic { return s.nymStatus }

// WorkerStatus returns the atomic cell representing the worker pool's
// aggregate status (e.g. Working if any worker is servicing a request).
func (s *ServerStatus) WorkerStatus() *Atomic { return s.workerStat }

// RegisterWorkerCounter installs the callback used to report live
// active/idle worker counts in Load's snapshot.
func (s *ServerStatus) RegisterWorkerCounter(f func() (active, idle int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workerCount = f
}

// Load reads every component status into a plain value object.
func (s *ServerStatus) Load() Snapshot {
	s.mu.RLock()
	counter := s.workerCount
	s.mu.RUnlock()

	var active, idle int
	if counter != nil {
		active, idle = counter()
	}
	return Snapshot{
		Server: s.Server.Load(),
		Ingestors: IngestorStatuses{
			TCP: s.tcpStatus.Load(),
			Nym: s.nymStatus.Load(),
		},
		Workers: WorkerPoolStatus{
			Active: active,
			Idle:   idle,
			Status: s.workerStat.Load(),
		},
	}
}
