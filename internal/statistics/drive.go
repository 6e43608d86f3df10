package statistics

import (
	"github.com/bot-go-brr/brain/internal/telemetry"
	"github.com/bot-go-brr/brain/internal/util"
	"github.com/prometheus/client_golang/prometheus"
)

const driveSubsystem = "drive"

// DriveCollector exports the latest telemetry snapshot of every controller
type DriveCollector struct {
	store *telemetry.Store

	yaw          *prometheus.Desc
	leftVoltage  *prometheus.Desc
	rightVoltage *prometheus.Desc
	beltVoltage  *prometheus.Desc
	solenoid     *prometheus.Desc
}

func NewDriveCollector(store *telemetry.Store) *DriveCollector {
	return &DriveCollector{
		store: store,
		yaw: prometheus.NewDesc(prometheus.BuildFQName(namespace, driveSubsystem, "yaw_degrees"),
			"Current heading of the robot",
			[]string{"id"}, nil,
		),
		leftVoltage: prometheus.NewDesc(prometheus.BuildFQName(namespace, driveSubsystem, "left_millivolts"),
			"Voltage applied to the left drive motors",
			[]string{"id"}, nil,
		),
		rightVoltage: prometheus.NewDesc(prometheus.BuildFQName(namespace, driveSubsystem, "right_millivolts"),
			"Voltage applied to the right drive motors",
			[]string{"id"}, nil,
		),
		beltVoltage: prometheus.NewDesc(prometheus.BuildFQName(namespace, driveSubsystem, "belt_millivolts"),
			"Voltage applied to the belt motors",
			[]string{"id"}, nil,
		),
		solenoid: prometheus.NewDesc(prometheus.BuildFQName(namespace, driveSubsystem, "solenoid_active"),
			"1 if the solenoid is active",
			[]string{"id"}, nil,
		),
	}
}

func (collector *DriveCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.yaw
	ch <- collector.leftVoltage
	ch <- collector.rightVoltage
	ch <- collector.beltVoltage
	ch <- collector.solenoid
}

// Collect implements required collect function for all prometheus collectors
func (collector *DriveCollector) Collect(ch chan<- prometheus.Metric) {
	snapshots := collector.store.All()
	for _, id := range util.SortedKeys(snapshots) {
		snapshot := snapshots[id]
		solenoid := 0.0
		if snapshot.Solenoid {
			solenoid = 1
		}
		ch <- prometheus.MustNewConstMetric(collector.yaw, prometheus.GaugeValue, snapshot.Yaw, id)
		ch <- prometheus.MustNewConstMetric(collector.leftVoltage, prometheus.GaugeValue, float64(snapshot.LeftVoltage), id)
		ch <- prometheus.MustNewConstMetric(collector.rightVoltage, prometheus.GaugeValue, float64(snapshot.RightVoltage), id)
		ch <- prometheus.MustNewConstMetric(collector.beltVoltage, prometheus.GaugeValue, float64(snapshot.BeltVoltage), id)
		ch <- prometheus.MustNewConstMetric(collector.solenoid, prometheus.GaugeValue, solenoid, id)
	}
}
