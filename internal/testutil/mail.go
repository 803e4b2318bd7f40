package testutil

import (
	"context"
	"sync"
)

type SentMail struct {
	To      string
	Subject string
	HTML    string
}

// Outbox records emails instead of sending them.
type Outbox struct {
	mu   sync.Mutex
	Sent []SentMail
}

func (o *Outbox) Send(_ context.Context, to, subject, html string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Sent = append(o.Sent, SentMail{To: to, Subject: subject, HTML: html})
	return nil
}

func (o *Outbox) Last() (SentMail, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.Sent) == 0 {
		return SentMail{}, false
	}
	return o.Sent[len(o.Sent)-1], true
}

func (o *Outbox) Count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.Sent)
}
