/*Package metrics wraps datadog-go to faciliate metric recording
Following are naming convention of metric:
- Internal process time: *.time
- Error: *.err
*/
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/spf13/viper"

	"github.com/x-xyz/listings/base/env"
	"github.com/x-xyz/listings/base/log"
)

const (
	// TagValueNA is used for tags whose values are not available.
	TagValueNA = "n/a"

	ddPort = 8125
	// buffer 10 metrics before sending to statsd
	bufferMetrics = 10
)

var (
	initOnce sync.Once
	client   statsCli
)

// Ender provides interface for BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

type statsCli interface {
	Gauge(name string, value float64, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
	Histogram(name string, value float64, tags []string, rate float64) error
	TimeInMilliseconds(name string, value float64, tags []string, rate float64) error
}

// initClient connects to the datadog agent on datadog_host, metrics only go to the debug log
// when it is unset
func initClient() {
	host := viper.GetString("datadog_host")
	if host == "" {
		client = logClient{}
		return
	}
	addr := fmt.Sprintf("%s:%d", host, ddPort)
	log.Log().WithField("addr", addr).Info("connecting to datadog agent")
	c, err := statsd.NewBuffered(addr, bufferMetrics)
	if err != nil {
		log.Log().WithFields(log.Fields{"addr": addr, "err": err}).Panic("can't talk to datadog agent")
	}
	client = c
}

// New creates a metric client with package name as prefix
func New(pkgName string) Service {
	initOnce.Do(initClient)
	return &Metrics{
		pkgName: pkgName,
		cli:     client,
		tags: []string{
			"host:", // remove unused host tag
			"pod:" + env.PodName(),
			"env:" + env.Lookup("ENV_NAME", viper.GetString("env_name")),
			"app:" + env.Lookup("APP_NAME", viper.GetString("app_name")),
		},
	}
}

// NewNop drops everything, used by tests
func NewNop() Service {
	return nop{}
}

type Metrics struct {
	pkgName string
	cli     statsCli
	tags    []string
}

func (m *Metrics) key(k string) string {
	return m.pkgName + "." + k
}

func (m *Metrics) allTags(tags []string) []string {
	res := make([]string, 0, len(m.tags)+len(tags)/2)
	res = append(res, m.tags...)
	return append(res, parseTag(tags)...)
}

func (m *Metrics) report(fn string, key string, err error) {
	if err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "func": fn}).Error("Bump fail")
	}
}

// BumpAvg bumps the average for the given key.
func (m *Metrics) BumpAvg(key string, val float64, tags ...string) {
	m.report("BumpAvg", key, m.cli.Gauge(m.key(key), val, m.allTags(tags), 1))
}

// BumpSum bumps the sum for the given key.
func (m *Metrics) BumpSum(key string, val float64, tags ...string) {
	m.report("BumpSum", key, m.cli.Count(m.key(key), int64(val), m.allTags(tags), 1))
}

// BumpHistogram bumps the histogram for the given key.
func (m *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	m.report("BumpHistogram", key, m.cli.Histogram(m.key(key), val, m.allTags(tags), 1))
}

// BumpTime starts a timer, End() records it:
//
//     defer s.BumpTime("my.function").End()
func (m *Metrics) BumpTime(key string, tags ...string) Ender {
	return &timeTracker{m: m, key: key, tags: m.allTags(tags), start: time.Now()}
}

type timeTracker struct {
	m     *Metrics
	key   string
	tags  []string
	start time.Time
}

func (t *timeTracker) End() {
	d := time.Since(t.start)
	ms := float64(d/time.Millisecond) + float64(d%time.Millisecond)*1e-6
	t.m.report("BumpTime", t.key, t.m.cli.TimeInMilliseconds(t.m.key(t.key), ms, t.tags, 1))
}

// parseTag turns k1, v1, k2, v2 into k1:v1, k2:v2
func parseTag(tags []string) []string {
	if len(tags)%2 != 0 {
		log.Log().WithField("tags", tags).Panic("tag length needs to be multiple of 2")
	}
	arr := make([]string, len(tags)/2)
	for i := 0; i < len(tags); i += 2 {
		arr[i/2] = tags[i] + ":" + tags[i+1]
	}
	return arr
}

type logClient struct{}

func (logClient) Gauge(name string, value float64, tags []string, rate float64) error {
	log.Log().WithFields(log.Fields{"key": name, "val": value, "tags": tags}).Debug("metric gauge")
	return nil
}

func (logClient) Count(name string, value int64, tags []string, rate float64) error {
	log.Log().WithFields(log.Fields{"key": name, "val": value, "tags": tags}).Debug("metric count")
	return nil
}

func (logClient) Histogram(name string, value float64, tags []string, rate float64) error {
	log.Log().WithFields(log.Fields{"key": name, "val": value, "tags": tags}).Debug("metric histogram")
	return nil
}

func (logClient) TimeInMilliseconds(name string, value float64, tags []string, rate float64) error {
	log.Log().WithFields(log.Fields{"key": name, "time_ms": value, "tags": tags}).Debug("metric time")
	return nil
}

type nop struct{}

func (nop) BumpAvg(string, float64, ...string)       {}
func (nop) BumpSum(string, float64, ...string)       {}
func (nop) BumpHistogram(string, float64, ...string) {}
func (nop) BumpTime(string, ...string) Ender         { return nopEnder{} }

type nopEnder struct{}

func (nopEnder) End() {}
