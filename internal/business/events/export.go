package events

import (
	"bytes"
	"context"
	"fmt"

	"github.com/SergeyKozhin/calendar-engine/internal/model"
	"github.com/SergeyKozhin/calendar-engine/internal/pkg/icsexport"
)

// ExportEvents runs the search and renders the result as an iCalendar file.
func (s *Service) ExportEvents(ctx context.Context, userID int64, query *model.EventsQuery) ([]byte, error) {
	events, err := s.SearchEvents(ctx, userID, query)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := icsexport.Encode(&buf, events, s.now(), s.loc); err != nil {
		return nil, fmt.Errorf("icsexport.Encode: %w", err)
	}

	s.logger.Debugw("events exported", "user", userID, "count", len(events))

	return buf.Bytes(), nil
}
