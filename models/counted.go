package models

// Statused is implemented by records that move through a Lifecycle.
type Statused interface {
	GetStatus() Status
	SetStatus(Status)
}

// Counted is implemented by records tracked in a status aggregate. CountKey is
// the aggregate field the record currently counts towards, CountScope the
// aggregate document it belongs to ("" for a collection-wide aggregate).
type Counted interface {
	CountKey() string
	CountScope() string
}

func (b *BlogPost) GetStatus() Status              { return b.Status }
func (b *BlogPost) SetStatus(s Status)             { b.Status = s }
func (b *BlogPost) CountKey() string               { return b.Status.CountKey() }
func (b *BlogPost) CountScope() string             { return string(b.Product) }
func (p *Project) GetStatus() Status               { return p.Status }
func (p *Project) SetStatus(s Status)              { p.Status = s }
func (p *Project) CountKey() string                { return p.Status.CountKey() }
func (p *Project) CountScope() string              { return "" }
func (e *Experience) GetStatus() Status            { return e.Status }
func (e *Experience) SetStatus(s Status)           { e.Status = s }
func (e *Experience) CountKey() string             { return e.Status.CountKey() }
func (e *Experience) CountScope() string           { return "" }
func (r *Ride) GetStatus() Status                  { return r.Status }
func (r *Ride) SetStatus(s Status)                 { r.Status = s }
func (r *Ride) CountKey() string                   { return r.Status.CountKey() }
func (r *Ride) CountScope() string                 { return "" }
func (r *Rider) GetStatus() Status                 { return r.Status }
func (r *Rider) SetStatus(s Status)                { r.Status = s }
func (r *Rider) CountKey() string                  { return r.Status.CountKey() }
func (r *Rider) CountScope() string                { return "" }
func (a *Announcement) GetStatus() Status          { return a.Status }
func (a *Announcement) SetStatus(s Status)         { a.Status = s }
func (n *NewsletterSubscriber) GetStatus() Status  { return n.Status }
func (n *NewsletterSubscriber) SetStatus(s Status) { n.Status = s }

func (c *Contact) CountKey() string   { return ReadStateKey(c.IsRead) }
func (c *Contact) CountScope() string { return string(c.Product) }
