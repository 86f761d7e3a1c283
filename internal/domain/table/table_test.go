package table_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/climatekit/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func targets() *table.Table {
	return table.FromRecords(
		[]string{"actor_id", "target_year", "target_value", "target_type"},
		[]map[string]any{
			{"actor_id": "CA", "target_year": 2030, "target_value": 40.0, "target_type": "Absolute emission reduction"},
			{"actor_id": "CA", "target_year": 2050, "target_value": 100.0, "target_type": "Net zero"},
			{"actor_id": "CA", "target_year": 2030.0, "target_value": 40.0, "target_type": "Absolute emission reduction"},
			{"actor_id": "CA-ON", "target_year": 2030, "target_value": 30.0, "target_type": "Absolute emission reduction"},
		},
	)
}

func TestTable_Build(t *testing.T) {
	Convey("Given a table built from records", t, func() {
		tbl := targets()

		Convey("Then rows keep insertion order", func() {
			So(tbl.Len(), ShouldEqual, 4)
			So(tbl.Columns(), ShouldResemble, []string{"actor_id", "target_year", "target_value", "target_type"})
			So(tbl.Rows(), ShouldHaveLength, 4)
			So(tbl.Row(3).String("actor_id"), ShouldEqual, "CA-ON")
		})

		Convey("And typed accessors read the cells", func() {
			r := tbl.Row(0)
			So(r.String("actor_id"), ShouldEqual, "CA")
			year, ok := r.Int("target_year")
			So(ok, ShouldBeTrue)
			So(year, ShouldEqual, 2030)
			v, ok := r.Float("target_value")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 40.0)
			_, ok = r.Float("actor_id")
			So(ok, ShouldBeFalse)
		})

		Convey("And unknown keys are ignored while missing ones are nil", func() {
			tbl := table.FromRecords([]string{"a", "b"}, []map[string]any{{"a": 1, "z": "ignored"}})
			v, ok := tbl.Row(0).Value("b")
			So(ok, ShouldBeTrue)
			So(v, ShouldBeNil)
			So(tbl.HasColumn("z"), ShouldBeFalse)
			_, ok = tbl.Row(0).Value("z")
			So(ok, ShouldBeFalse)
		})

		Convey("And an empty table keeps its columns", func() {
			tbl := table.New("a", "b")
			So(tbl.Empty(), ShouldBeTrue)
			So(tbl.Columns(), ShouldResemble, []string{"a", "b"})
		})

		Convey("And json numbers are normalized", func() {
			tbl := table.FromRecords([]string{"year", "total_emissions"}, []map[string]any{
				{"year": json.Number("2019"), "total_emissions": json.Number("200.5")},
			})
			year, ok := tbl.Row(0).Int("year")
			So(ok, ShouldBeTrue)
			So(year, ShouldEqual, 2019)
			e, _ := tbl.Row(0).Float("total_emissions")
			So(e, ShouldEqual, 200.5)
		})
	})
}

func TestTable_SelectAndWhere(t *testing.T) {
	Convey("Given a targets table", t, func() {
		tbl := targets()

		Convey("When selecting existing columns", func() {
			out, err := tbl.Select("target_year", "actor_id")

			Convey("Then the projection keeps the requested order", func() {
				So(err, ShouldBeNil)
				So(out.Columns(), ShouldResemble, []string{"target_year", "actor_id"})
				So(out.Len(), ShouldEqual, 4)
				So(tbl.Columns(), ShouldHaveLength, 4)
			})
		})

		Convey("When selecting an unknown column", func() {
			_, err := tbl.Select("actor_id", "baseline_year")

			Convey("Then ErrColumnNotFound is returned", func() {
				So(errors.Is(err, table.ErrColumnNotFound), ShouldBeTrue)
			})
		})

		Convey("When filtering by equality across int and float cells", func() {
			out, err := tbl.Where("target_year", 2030)

			Convey("Then both representations match", func() {
				So(err, ShouldBeNil)
				So(out.Len(), ShouldEqual, 3)
				So(out.Row(2).String("actor_id"), ShouldEqual, "CA-ON")
			})
		})

		Convey("When filtering by a string column", func() {
			out, err := tbl.Where("target_type", "Net zero")
			So(err, ShouldBeNil)
			So(out.Len(), ShouldEqual, 1)
			year, _ := out.Row(0).Int("target_year")
			So(year, ShouldEqual, 2050)
		})

		Convey("When nothing matches", func() {
			out, err := tbl.Where("actor_id", "XX")
			So(err, ShouldBeNil)
			So(out.Empty(), ShouldBeTrue)
			So(out.Columns(), ShouldHaveLength, 4)
		})

		Convey("When filtering on an unknown column", func() {
			_, err := tbl.Where("datasource_id", "x")
			So(errors.Is(err, table.ErrColumnNotFound), ShouldBeTrue)
		})
	})
}

func TestTable_ConcatDedupe(t *testing.T) {
	Convey("Given two tables with overlapping columns", t, func() {
		own := table.FromRecords([]string{"name", "actor_id"}, []map[string]any{{"name": "Canada", "actor_id": "CA"}})
		parts := table.FromRecords([]string{"name", "actor_id", "type"}, []map[string]any{
			{"name": "Ontario", "actor_id": "CA-ON", "type": "adm1"},
			{"name": "Quebec", "actor_id": "CA-QC", "type": "adm1"},
		})

		Convey("When concatenating", func() {
			out := own.Concat(parts)

			Convey("Then rows keep their order under a widened schema", func() {
				So(out.Len(), ShouldEqual, 3)
				So(out.Columns(), ShouldResemble, []string{"name", "actor_id", "type"})
				So(out.Row(0).String("actor_id"), ShouldEqual, "CA")
				So(out.Row(2).String("name"), ShouldEqual, "Quebec")
				v, ok := out.Row(0).Value("type")
				So(ok, ShouldBeTrue)
				So(v, ShouldBeNil)
				So(out.Row(1).String("type"), ShouldEqual, "adm1")
			})
		})

		Convey("When concatenating with an empty table", func() {
			out := own.Concat(table.New("name", "actor_id"))
			So(out.Len(), ShouldEqual, 1)
			So(out.Row(0).String("name"), ShouldEqual, "Canada")
		})

		Convey("When dropping duplicates", func() {
			tbl, _ := targets().Select("actor_id", "target_year", "target_value")
			out := tbl.DropDuplicates()

			Convey("Then equal rows collapse to the first occurrence", func() {
				So(out.Len(), ShouldEqual, 3)
				year, _ := out.Row(1).Int("target_year")
				So(year, ShouldEqual, 2050)
				So(out.Row(2).String("actor_id"), ShouldEqual, "CA-ON")
			})
		})
	})
}

func TestTable_Scalars(t *testing.T) {
	Convey("Given an emissions table", t, func() {
		tbl := table.FromRecords([]string{"year", "total_emissions"}, []map[string]any{
			{"year": 2018, "total_emissions": 210.0},
			{"year": 2019, "total_emissions": 200.0},
			{"year": 2020, "total_emissions": nil},
		})

		Convey("When exactly one row remains", func() {
			one, _ := tbl.Where("year", 2019)
			v, err := one.Float("total_emissions")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 200.0)
		})

		Convey("When zero or several rows remain", func() {
			none, _ := tbl.Where("year", 1990)
			_, err := none.Item("total_emissions")
			So(errors.Is(err, table.ErrNotScalar), ShouldBeTrue)
			_, err = tbl.Float("total_emissions")
			So(errors.Is(err, table.ErrNotScalar), ShouldBeTrue)
		})

		Convey("When the single cell is not numeric", func() {
			nan, _ := tbl.Where("year", 2020)
			_, err := nan.Float("total_emissions")
			So(errors.Is(err, table.ErrNotNumeric), ShouldBeTrue)
		})

		Convey("When collecting a numeric column", func() {
			vals, err := tbl.Floats("total_emissions")
			So(err, ShouldBeNil)
			So(vals, ShouldResemble, []float64{210, 200})
		})

		Convey("When collecting an unknown column", func() {
			_, err := tbl.Floats("nope")
			So(errors.Is(err, table.ErrColumnNotFound), ShouldBeTrue)
		})
	})
}

func TestTable_Render(t *testing.T) {
	Convey("Given a small table", t, func() {
		tbl := table.FromRecords([]string{"name", "actor_id"}, []map[string]any{{"name": "Canada", "actor_id": "CA"}})

		Convey("Then JSON carries columns and records", func() {
			b, err := json.Marshal(tbl)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `{"columns":["name","actor_id"],"records":[{"actor_id":"CA","name":"Canada"}]}`)
		})

		Convey("Then String renders a tab-separated grid", func() {
			So(tbl.String(), ShouldEqual, "\tname\tactor_id\n0\tCanada\tCA\n")
		})

		Convey("Then NaN cells are null in JSON and NaN in the grid", func() {
			tbl := table.FromRecords([]string{"year", "total_emissions"}, []map[string]any{
				{"year": 2019, "total_emissions": 1.5},
				{"year": 2020},
			})
			b, err := json.Marshal(tbl)
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `{"total_emissions":null,"year":2020}`)
			So(tbl.String(), ShouldEndWith, "1\t2020\tNaN\n")
		})
	})
}
