// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"sync"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/models"
)

// RecordingPublisher collects published reports instead of writing them anywhere.
type RecordingPublisher struct {
	mu      sync.Mutex
	records []models.ReportRecord
}

func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

func (p *RecordingPublisher) Publish(_ *envelope.Scope, record models.ReportRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, record)
}

func (p *RecordingPublisher) Records() []models.ReportRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.ReportRecord(nil), p.records...)
}

// Latest returns the most recent record published for matchID.
func (p *RecordingPublisher) Latest(matchID string) (models.ReportRecord, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.records) - 1; i >= 0; i-- {
		if p.records[i].MatchID == matchID {
			return p.records[i], true
		}
	}
	return models.ReportRecord{}, false
}
