package explain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrolens/macrolens/internal/analytics"
	"github.com/macrolens/macrolens/internal/catalog"
	"github.com/macrolens/macrolens/internal/timeseries"
)

func newSelector(t *testing.T) *Selector {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return New(cat)
}

func TestDescribe(t *testing.T) {
	s := newSelector(t)

	d := s.Describe("Brent")
	assert.Equal(t, "Giá dầu Brent", d.DisplayName)
	assert.Equal(t, "USD/thùng", d.Unit)
	assert.Equal(t, "Hàng hóa quốc tế", d.Category)
	assert.NotEmpty(t, d.Explanation)

	d = s.Describe("Mystery_Index")
	assert.Equal(t, Descriptor{
		ID:          "Mystery_Index",
		DisplayName: "Mystery_Index",
		Unit:        "",
		Category:    "Khác",
	}, d)
}

func TestRelationship(t *testing.T) {
	s := newSelector(t)

	forward := s.Relationship("Brent", "Core_Inlation")
	backward := s.Relationship("Core_Inlation", "Brent")
	assert.Equal(t, forward, backward)
	assert.True(t, strings.HasPrefix(forward, "Giá dầu Brent"))

	fallback := s.Relationship("Gold", "Mystery_Index")
	assert.Contains(t, fallback, "Giá vàng")
	assert.Contains(t, fallback, "Mystery_Index")
	assert.Equal(t, fallback, s.Relationship("Gold", "Mystery_Index"))
	assert.NotContains(t, fallback, "{a}")
}

func TestSeasonal(t *testing.T) {
	s := newSelector(t)

	assert.Contains(t, s.Seasonal("VN_rice_price"), "Giá gạo")
	assert.Equal(t, s.Seasonal("Gold"), s.Seasonal("Brent"))
	assert.Contains(t, s.Seasonal("Gold"), "Tết Nguyên đán")
}

func TestBandLabel(t *testing.T) {
	s := newSelector(t)

	assert.Equal(t, "Tương quan thuận rất mạnh", s.BandLabel(analytics.DescribeCorrelation(0.9)))
	assert.Equal(t, "Tương quan nghịch trung bình", s.BandLabel(analytics.DescribeCorrelation(-0.5)))
	assert.Equal(t, "Gần như không có tương quan", s.BandLabel(analytics.DescribeCorrelation(0.05)))
}

func TestGroups(t *testing.T) {
	s := newSelector(t)

	groups := s.Groups([]string{"Food_Inflation", "Brent", "Core_Inlation", "Mystery_Index"})
	require.Len(t, groups, 3)
	assert.Equal(t, "Lạm phát", groups[0].Category)
	assert.Len(t, groups[0].Indicators, 2)
	assert.Equal(t, "Hàng hóa quốc tế", groups[1].Category)
	assert.Equal(t, "Khác", groups[2].Category)
}

func panelStore(t *testing.T) *timeseries.Store {
	t.Helper()
	rows := [][3]float64{{1, 2, 5}, {2, 4, 3}, {3, 5, 4}, {4, 9, 1}}
	records := make([]timeseries.Record, len(rows))
	for i, r := range rows {
		records[i] = timeseries.NewRecord(2021, time.Month(i+1), map[string]timeseries.Value{
			"Brent":         timeseries.Some(r[0]),
			"Core_Inlation": timeseries.Some(r[1]),
			"Gold":          timeseries.Some(r[2]),
			"Flat":          timeseries.Some(1),
		})
	}
	store, err := timeseries.NewStore(records)
	require.NoError(t, err)
	return store
}

func TestPanel_SingleSeasonal(t *testing.T) {
	s := newSelector(t)

	p, err := s.Panel(panelStore(t), "seasonal", []string{"Brent"})
	require.NoError(t, err)
	require.Len(t, p.Sections, 3)
	assert.Equal(t, "Về biểu đồ Biểu đồ mùa vụ", p.Sections[0].Heading)
	assert.Equal(t, "Về chỉ số Giá dầu Brent", p.Sections[1].Heading)
	assert.Equal(t, "Mẫu mùa vụ", p.Sections[2].Heading)
}

func TestPanel_Scatter(t *testing.T) {
	s := newSelector(t)

	p, err := s.Panel(panelStore(t), "scatter", []string{"Brent", "Core_Inlation"})
	require.NoError(t, err)
	require.Len(t, p.Sections, 3)
	assert.Contains(t, p.Sections[1].Heading, "Lạm phát cơ bản")
	assert.Equal(t, "Hệ số tương quan", p.Sections[2].Heading)
	assert.Contains(t, p.Sections[2].Body, "Tương quan thuận")
}

func TestPanel_StrongestTable(t *testing.T) {
	s := newSelector(t)

	p, err := s.Panel(panelStore(t), "multi-line", []string{"Brent", "Gold", "Flat"})
	require.NoError(t, err)
	require.Len(t, p.Sections, 2)

	rows := p.Sections[1].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, "Gold", rows[0].Partner)
	require.NotNil(t, rows[0].R)
	assert.Less(t, *rows[0].R, 0.0)
	assert.Nil(t, rows[2].R)
	assert.Equal(t, "Không có dữ liệu", rows[2].Text)
}

func TestPanel_UnknownIndicator(t *testing.T) {
	s := newSelector(t)

	_, err := s.Panel(panelStore(t), "line", []string{"Nope"})
	assert.ErrorIs(t, err, timeseries.ErrUnknownIndicator)
}
