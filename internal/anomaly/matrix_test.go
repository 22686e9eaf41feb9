package anomaly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fleetcli/internal/errors"
)

func TestTableColumnIndex(t *testing.T) {
	tbl := Table{Columns: []string{"Cuenta", " Mes ", "Importe"}}

	assert.Equal(t, 0, tbl.ColumnIndex("cuenta"))
	assert.Equal(t, 1, tbl.ColumnIndex("Mes"))
	assert.Equal(t, 2, tbl.ColumnIndex("IMPORTE"))
	assert.Equal(t, -1, tbl.ColumnIndex("missing"))
}

func TestBuildMatrix(t *testing.T) {
	t.Run("pivots and sums duplicates", func(t *testing.T) {
		tbl := Table{
			Columns: []string{"cuenta", "mes", "importe"},
			Rows: [][]string{
				{"ventas", "ene", "100"},
				{"ventas", "ene", "50"},
				{"ventas", "feb", "30"},
				{"gastos", "ene", "-20"},
			},
		}

		m, err := BuildMatrix(tbl, "cuenta", "mes", "importe", []string{"ene", "feb", "mar"})
		require.NoError(t, err)

		// categories come out sorted
		assert.Equal(t, []string{"gastos", "ventas"}, m.Categories)
		assert.Equal(t, []string{"ene", "feb", "mar"}, m.Periods)
		assert.Equal(t, []float64{-20, 0, 0}, m.Values[0])
		assert.Equal(t, []float64{150, 30, 0}, m.Values[1])
	})

	t.Run("normalizes period labels", func(t *testing.T) {
		tbl := Table{
			Columns: []string{"cuenta", "mes", "importe"},
			Rows: [][]string{
				{"ventas", " ENE ", "10"},
				{"ventas", "Feb", "20"},
			},
		}

		m, err := BuildMatrix(tbl, "cuenta", "mes", "importe", []string{"ene", "feb"})
		require.NoError(t, err)
		assert.Equal(t, []float64{10, 20}, m.Values[0])
	})

	t.Run("drops periods outside the vocabulary", func(t *testing.T) {
		tbl := Table{
			Columns: []string{"cuenta", "mes", "importe"},
			Rows: [][]string{
				{"ventas", "ene", "10"},
				{"ventas", "total", "9999"},
			},
		}

		m, err := BuildMatrix(tbl, "cuenta", "mes", "importe", []string{"ene", "feb"})
		require.NoError(t, err)
		assert.Equal(t, []float64{10, 0}, m.Values[0])
	})

	t.Run("accepts comma decimal separators", func(t *testing.T) {
		tbl := Table{
			Columns: []string{"cuenta", "mes", "importe"},
			Rows: [][]string{
				{"ventas", "ene", "10,5"},
			},
		}

		m, err := BuildMatrix(tbl, "cuenta", "mes", "importe", []string{"ene"})
		require.NoError(t, err)
		assert.Equal(t, []float64{10.5}, m.Values[0])
	})

	t.Run("skips unparsable measures and blank categories", func(t *testing.T) {
		tbl := Table{
			Columns: []string{"cuenta", "mes", "importe"},
			Rows: [][]string{
				{"ventas", "ene", "abc"},
				{"", "ene", "50"},
				{"ventas", "ene", "10"},
			},
		}

		m, err := BuildMatrix(tbl, "cuenta", "mes", "importe", []string{"ene"})
		require.NoError(t, err)
		assert.Equal(t, []string{"ventas"}, m.Categories)
		assert.Equal(t, []float64{10}, m.Values[0])
	})

	t.Run("missing columns reported together", func(t *testing.T) {
		tbl := Table{
			Columns: []string{"cuenta"},
			Rows:    [][]string{{"ventas"}},
		}

		_, err := BuildMatrix(tbl, "cuenta", "mes", "importe", nil)
		require.Error(t, err)

		var schemaErr *apperrors.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, []string{"mes", "importe"}, schemaErr.Columns)
	})

	t.Run("empty vocabulary falls back to default", func(t *testing.T) {
		tbl := Table{
			Columns: []string{"cuenta", "mes", "importe"},
			Rows:    [][]string{{"ventas", "dic", "5"}},
		}

		m, err := BuildMatrix(tbl, "cuenta", "mes", "importe", nil)
		require.NoError(t, err)
		assert.Len(t, m.Periods, 12)
		assert.Equal(t, 5.0, m.Values[0][11])
	})

	t.Run("short rows are tolerated", func(t *testing.T) {
		tbl := Table{
			Columns: []string{"cuenta", "mes", "importe"},
			Rows: [][]string{
				{"ventas"},
				{"ventas", "ene", "10"},
			},
		}

		m, err := BuildMatrix(tbl, "cuenta", "mes", "importe", []string{"ene"})
		require.NoError(t, err)
		assert.Equal(t, []float64{10}, m.Values[0])
	})
}
