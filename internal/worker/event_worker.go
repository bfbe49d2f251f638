package worker

import (
	"github.com/spec-kit/lead-dashboard/internal/service"
)

// StartEventWorker registers lead event handlers.
func StartEventWorker(eventService *service.EventService) {
	if eventService == nil {
		return
	}
	eventService.RegisterHandlers()
}
