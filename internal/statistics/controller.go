package statistics

import (
	"github.com/bot-go-brr/brain/internal/controller"
	"github.com/prometheus/client_golang/prometheus"
)

const controllerSubsystem = "controller"

// StatisticsProvider is implemented by controller.Controller
type StatisticsProvider interface {
	GetId() string
	GetStatistics() controller.Statistics
}

type ControllerCollector struct {
	controllers []StatisticsProvider

	ticks           *prometheus.Desc
	sensorErrors    *prometheus.Desc
	actuatorErrors  *prometheus.Desc
	overruns        *prometheus.Desc
	droppedLogs     *prometheus.Desc
	rotationOutput  *prometheus.Desc
	positionOutput  *prometheus.Desc
	position        *prometheus.Desc
	maxTickDuration *prometheus.Desc
	avgTickDuration *prometheus.Desc
}

func NewControllerCollector(controllers ...StatisticsProvider) *ControllerCollector {
	labels := []string{"id"}
	return &ControllerCollector{
		controllers: controllers,
		ticks: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "ticks_total"),
			"Number of control ticks executed",
			labels, nil,
		),
		sensorErrors: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "sensor_errors_total"),
			"Number of failed sensor reads replaced by the last good reading",
			labels, nil,
		),
		actuatorErrors: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "actuator_errors_total"),
			"Number of failed motor or digital output writes",
			labels, nil,
		),
		overruns: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "overruns_total"),
			"Number of ticks that took longer than the tick rate",
			labels, nil,
		),
		droppedLogs: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "dropped_logs_total"),
			"Number of log messages dropped because the tick log was full",
			labels, nil,
		),
		rotationOutput: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "rotation_output_millivolts"),
			"Last turn output of the autonomous correction",
			labels, nil,
		),
		positionOutput: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "position_output_millivolts"),
			"Last forward output of the autonomous correction",
			labels, nil,
		),
		position: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "position_millimeters"),
			"Odometry position since the start of the session",
			labels, nil,
		),
		maxTickDuration: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "tick_duration_max_seconds"),
			"Longest recent tick",
			labels, nil,
		),
		avgTickDuration: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "tick_duration_avg_seconds"),
			"Average duration of recent ticks",
			labels, nil,
		),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.ticks
	ch <- collector.sensorErrors
	ch <- collector.actuatorErrors
	ch <- collector.overruns
	ch <- collector.droppedLogs
	ch <- collector.rotationOutput
	ch <- collector.positionOutput
	ch <- collector.position
	ch <- collector.maxTickDuration
	ch <- collector.avgTickDuration
}

// Collect implements required collect function for all prometheus collectors
func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	for _, contr := range collector.controllers {
		id := contr.GetId()
		stats := contr.GetStatistics()
		ch <- prometheus.MustNewConstMetric(collector.ticks, prometheus.CounterValue, float64(stats.Ticks), id)
		ch <- prometheus.MustNewConstMetric(collector.sensorErrors, prometheus.CounterValue, float64(stats.SensorErrors), id)
		ch <- prometheus.MustNewConstMetric(collector.actuatorErrors, prometheus.CounterValue, float64(stats.ActuatorErrors), id)
		ch <- prometheus.MustNewConstMetric(collector.overruns, prometheus.CounterValue, float64(stats.Overruns), id)
		ch <- prometheus.MustNewConstMetric(collector.droppedLogs, prometheus.CounterValue, float64(stats.DroppedLogs), id)
		ch <- prometheus.MustNewConstMetric(collector.rotationOutput, prometheus.GaugeValue, stats.RotationOutput, id)
		ch <- prometheus.MustNewConstMetric(collector.positionOutput, prometheus.GaugeValue, stats.PositionOutput, id)
		ch <- prometheus.MustNewConstMetric(collector.position, prometheus.GaugeValue, stats.Position, id)
		ch <- prometheus.MustNewConstMetric(collector.maxTickDuration, prometheus.GaugeValue, stats.MaxTickDuration.Seconds(), id)
		ch <- prometheus.MustNewConstMetric(collector.avgTickDuration, prometheus.GaugeValue, stats.AvgTickDuration.Seconds(), id)
	}
}
