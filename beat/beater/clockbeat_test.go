package beater

import (
	"testing"
	"time"

	"github.com/elastic/beats/v7/libbeat/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiwa/tc-clock/pkg/clockdisplay"
)

func TestEvent(t *testing.T) {
	started := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	ev := Event(clockdisplay.Report{
		CycleID: "c1",
		Started: started,
		Server:  "129.6.15.28",
		Synced:  true,
		UTC:     1752580800,
		Zones:   []clockdisplay.ZoneReport{{Name: "BERN", Time: "14:00", Abbr: "CEST", DST: true}},
		Probe:   &clockdisplay.ProbeReport{Host: "www.kcrg.com", Port: 80, OK: false, Status: "Failed"},
	})
	assert.Equal(t, started, ev.Timestamp)

	v, err := ev.Fields.GetValue("ntp.synced")
	require.NoError(t, err)
	assert.Equal(t, true, v)
	v, err = ev.Fields.GetValue("probe.status")
	require.NoError(t, err)
	assert.Equal(t, "Failed", v)
	zones, ok := ev.Fields["zones"].([]common.MapStr)
	require.True(t, ok)
	assert.Equal(t, "CEST", zones[0]["abbr"])

	has, _ := ev.Fields.HasKey("clock")
	assert.False(t, has)
}

func TestUnpack(t *testing.T) {
	cfg := common.MustNewConfigFrom(map[string]interface{}{
		"tc_clock": map[string]interface{}{
			"ntp":   map[string]interface{}{"servers": []string{"pool.ntp.org"}},
			"zones": []map[string]interface{}{{"name": "BERN"}, {"name": "TOKYO", "offset": 9, "std_abbr": "JST"}},
		},
	})
	c, err := unpack(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"pool.ntp.org"}, c.NTP.Servers)
	assert.Equal(t, 123, c.NTP.Port)
	zones, err := c.ResolveZones()
	require.NoError(t, err)
	assert.Len(t, zones, 2)

	c, err = unpack(common.NewConfig())
	require.NoError(t, err)
	assert.Equal(t, "console", c.Sink.Type)
}
