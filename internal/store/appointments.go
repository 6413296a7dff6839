package store

import "github.com/isdelr/mindcare-be/internal/models"

// Appointment looks up an appointment by id.
func (s *Store) Appointment(id string) (models.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.snap.Appointments {
		if a.ID == id {
			return a, true
		}
	}
	return models.Appointment{}, false
}

// AddAppointment appends a with a freshly generated id. The status is stored as given;
// booking flows are expected to pass StatusPending.
func (s *Store) AddAppointment(a models.Appointment) models.Appointment {
	s.mu.Lock()
	a.ID = s.appointmentIDs.next(func(id string) bool {
		for _, existing := range s.snap.Appointments {
			if existing.ID == id {
				return true
			}
		}
		return false
	})
	next := make([]models.Appointment, len(s.snap.Appointments), len(s.snap.Appointments)+1)
	copy(next, s.snap.Appointments)
	s.snap.Appointments = append(next, a)
	s.mu.Unlock()

	s.publish(Change{Collection: CollectionAppointments, Op: OpCreate, ID: a.ID})
	return a
}

// UpdateAppointment shallow-merges patch into the matching appointment.
// Transitions are not checked here; any caller may set any status.
func (s *Store) UpdateAppointment(id string, patch models.AppointmentPatch) (models.Appointment, error) {
	return s.UpdateAppointmentIf(id, nil, patch)
}

// UpdateAppointmentIf is UpdateAppointment guarded by allow, which sees the
// current record under the write lock. A non-nil error from allow aborts the
// update and is returned unchanged.
func (s *Store) UpdateAppointmentIf(id string, allow func(models.Appointment) error, patch models.AppointmentPatch) (models.Appointment, error) {
	s.mu.Lock()
	idx := -1
	for i, a := range s.snap.Appointments {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return models.Appointment{}, ErrNotFound
	}
	if allow != nil {
		if err := allow(s.snap.Appointments[idx]); err != nil {
			s.mu.Unlock()
			return models.Appointment{}, err
		}
	}

	updated := patch.Apply(s.snap.Appointments[idx])
	updated.ID = id
	next := make([]models.Appointment, len(s.snap.Appointments))
	copy(next, s.snap.Appointments)
	next[idx] = updated
	s.snap.Appointments = next
	s.mu.Unlock()

	s.publish(Change{Collection: CollectionAppointments, Op: OpUpdate, ID: id})
	return updated, nil
}
