package model

// SetOwner stamps the owning user onto a row before insertion. The
// generic CRUD handler calls it with the authenticated identity, so a
// client can never create a row for another user.

func (a *Asset) SetOwner(userID string)             { a.UserID = userID }
func (t *Transaction) SetOwner(userID string)       { t.UserID = userID }
func (p *PriceAlert) SetOwner(userID string)        { p.UserID = userID }
func (p *PortfolioPosition) SetOwner(userID string) { p.UserID = userID }
func (p *PortfolioSnapshot) SetOwner(userID string) { p.UserID = userID }
func (w *WatchlistItem) SetOwner(userID string)     { w.UserID = userID }
func (u *UserSetting) SetOwner(userID string)       { u.UserID = userID }
func (s *Subscription) SetOwner(userID string)      { s.UserID = userID }
