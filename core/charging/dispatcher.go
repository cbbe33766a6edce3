package charging

// dispatch moves admitted requests to the work queue in arrival order. It
// sleeps until a submitter signals the admission queue and makes one last
// pass once shutdown begins.
func (s *Scheduler[A]) dispatch() {
	defer s.wg.Done()
	for {
		select {
		case <-s.admission.notify:
			s.forward()
		case <-s.done:
			s.forward()
			s.work.wake()
			s.log.Debugf("dispatcher stopped")
			return
		}
	}
}

func (s *Scheduler[A]) forward() {
	reqs := s.admission.takeAll()
	if len(reqs) == 0 {
		return
	}
	depth := s.work.pushAll(reqs)
	queueDepth.Set(float64(depth))
	s.log.Debugw("requests forwarded", map[string]any{
		"count":       len(reqs),
		"queue_depth": depth,
		"first":       reqs[0].Ticket.String(),
	})
}
