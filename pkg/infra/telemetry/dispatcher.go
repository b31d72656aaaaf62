package telemetry

import (
	"context"

	"github.com/agentaudit/auditgate/pkg/domain/telemetry"
	"github.com/agentaudit/auditgate/pkg/infra/broadcast"
	"github.com/sirupsen/logrus"
)

// Dispatcher drains a hub subscription and hands each audit record to the
// configured exporters. Export failures are logged and skipped so one bad
// sink cannot stall the others.
type Dispatcher struct {
	logger    *logrus.Logger
	hub       *broadcast.Hub
	exporters []telemetry.Exporter
}

func NewDispatcher(logger *logrus.Logger, hub *broadcast.Hub, exporters []telemetry.Exporter) *Dispatcher {
	return &Dispatcher{
		logger:    logger,
		hub:       hub,
		exporters: exporters,
	}
}

// Run blocks until ctx is cancelled or the hub closes.
func (d *Dispatcher) Run(ctx context.Context) {
	if len(d.exporters) == 0 {
		return
	}

	sub := d.hub.Subscribe()
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			d.closeExporters()
			return
		case record, ok := <-sub.Records():
			if !ok {
				d.closeExporters()
				return
			}
			for _, exporter := range d.exporters {
				if err := exporter.Handle(ctx, &record); err != nil {
					d.logger.WithError(err).WithFields(logrus.Fields{
						"exporter":     exporter.Name(),
						"audit_log_id": record.ID,
					}).Error("failed to export audit log")
				}
			}
		}
	}
}

func (d *Dispatcher) closeExporters() {
	for _, exporter := range d.exporters {
		exporter.Close()
	}
}
