// Package output provides utilities for formatting and displaying planning results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/finance-planner/internal/domain"
	"github.com/iwvelando/finance-planner/internal/fire"
	"github.com/iwvelando/finance-planner/internal/forecast"
	"github.com/iwvelando/finance-planner/internal/optimizer"
	"github.com/iwvelando/finance-planner/internal/trend"
	"github.com/iwvelando/finance-planner/pkg/constants"
	"github.com/iwvelando/finance-planner/pkg/format"
	"github.com/iwvelando/finance-planner/pkg/validation"
)

const notAvailable = "n/a"

func symbolOrDefault(symbol string) string {
	if symbol == "" {
		return constants.DefaultCurrencySymbol
	}
	return symbol
}

func amount(value float64) string {
	return strconv.FormatFloat(value, 'f', constants.DecimalPlaces, 64)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func optionalYears(years *int) string {
	if years == nil {
		return notAvailable
	}
	return strconv.Itoa(*years)
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

// render dispatches on the output format.
func render(w io.Writer, outputFormat string, v interface{}, pretty func() string, csvOut func() error) error {
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}
	switch outputFormat {
	case constants.OutputFormatJSON:
		return WriteJSON(w, v)
	case constants.OutputFormatCSV:
		return csvOut()
	default:
		_, err := io.WriteString(w, pretty())
		return err
	}
}

// Projection writes a forward projection.
func Projection(w io.Writer, outputFormat string, result forecast.ProjectionResult, currency string) error {
	symbol := symbolOrDefault(currency)
	money := func(v float64) string { return format.CurrencyWithSymbol(v, symbol) }

	pretty := func() string {
		var b strings.Builder
		b.WriteString(RenderTitle("Net Worth Projection"))
		b.WriteString("\n")

		rows := make([][]string, 0, len(result.Data))
		for _, year := range result.Data {
			rows = append(rows, []string{
				strconv.Itoa(year.Year),
				strconv.Itoa(year.Age),
				money(year.NetWorth),
				money(year.Contribution),
				money(year.InterestEarned),
				money(year.EventsValue),
				money(year.BuyingPower),
			})
		}
		b.WriteString(RenderTable(Table{
			Headers: []string{"Year", "Age", "Net Worth", "Contributions", "Interest", "Events", "Buying Power"},
			Rows:    rows,
		}))

		milestoneTables := []struct {
			title      string
			milestones []domain.Milestone
		}{
			{"Milestones", result.Milestones},
			{"Goals", result.GoalMilestones},
		}
		for _, table := range milestoneTables {
			if len(table.milestones) == 0 {
				continue
			}
			rows := make([][]string, 0, len(table.milestones))
			for _, m := range table.milestones {
				rows = append(rows, []string{m.Name, strconv.Itoa(m.Year), money(m.NetWorth)})
			}
			b.WriteString(RenderTable(Table{
				Title:   table.title,
				Headers: []string{"Milestone", "Year", "Net Worth"},
				Rows:    rows,
			}))
		}

		b.WriteString(RenderKeyValues("Summary", [][2]string{
			{"Final net worth", money(result.FinalNetWorth)},
			{"Final buying power", money(result.FinalBuyingPower)},
		}))
		b.WriteString(renderNotes(warnStyle, "!", result.Warnings))
		return b.String()
	}

	csvOut := func() error {
		rows := make([][]string, 0, len(result.Data))
		for _, year := range result.Data {
			rows = append(rows, []string{
				strconv.Itoa(year.Year),
				strconv.Itoa(year.Age),
				amount(year.NetWorth),
				amount(year.Contribution),
				amount(year.InterestEarned),
				amount(year.EventsValue),
				amount(year.BuyingPower),
			})
		}
		return writeCSV(w, []string{"year", "age", "net_worth", "contribution", "interest_earned", "events", "buying_power"}, rows)
	}

	return render(w, outputFormat, result, pretty, csvOut)
}

// Reverse writes a reverse-solve result.
func Reverse(w io.Writer, outputFormat string, result optimizer.ReverseResult, currency string) error {
	symbol := symbolOrDefault(currency)

	required := notAvailable
	requiredCSV := ""
	if result.RequiredMonthlyContribution != nil {
		required = format.CurrencyWithSymbol(*result.RequiredMonthlyContribution, symbol)
		requiredCSV = amount(*result.RequiredMonthlyContribution)
	}

	pretty := func() string {
		var b strings.Builder
		b.WriteString(RenderTitle("Required Monthly Savings"))
		b.WriteString("\n")
		b.WriteString(RenderKeyValues("", [][2]string{
			{"Target", format.CurrencyWithSymbol(result.Summary.Target, symbol)},
			{"Required monthly contribution", required},
			{"Possible", yesNo(result.IsPossible)},
			{"Already met", yesNo(result.AlreadyMet)},
			{"Method", result.Summary.Method},
			{"Iterations", strconv.Itoa(result.Summary.Iterations)},
			{"Projected outcome", format.CurrencyWithSymbol(result.Summary.Achieved, symbol)},
		}))
		style := goodStyle
		if !result.IsPossible {
			style = warnStyle
		}
		b.WriteString(style.Render(result.Message))
		b.WriteString("\n")
		b.WriteString(renderNotes(dimStyle, "-", result.Summary.Notes))
		return b.String()
	}

	csvOut := func() error {
		return writeCSV(w,
			[]string{"required_monthly_contribution", "is_possible", "already_met", "method", "iterations", "converged", "message"},
			[][]string{{
				requiredCSV,
				strconv.FormatBool(result.IsPossible),
				strconv.FormatBool(result.AlreadyMet),
				result.Summary.Method,
				strconv.Itoa(result.Summary.Iterations),
				strconv.FormatBool(result.Summary.Converged),
				result.Message,
			}})
	}

	return render(w, outputFormat, result, pretty, csvOut)
}

// Fire writes a FIRE calculation.
func Fire(w io.Writer, outputFormat string, result fire.Result, currency string) error {
	symbol := symbolOrDefault(currency)

	swr := notAvailable
	swrCSV := ""
	if result.CurrentSWR != nil {
		swr = format.Percent(*result.CurrentSWR)
		swrCSV = strconv.FormatFloat(*result.CurrentSWR, 'f', constants.DecimalPlaces, 64)
	}

	pretty := func() string {
		var b strings.Builder
		b.WriteString(RenderTitle("Financial Independence"))
		b.WriteString("\n")
		b.WriteString(RenderKeyValues("", [][2]string{
			{"FIRE number", format.CurrencyWithSymbol(result.FireNumber, symbol)},
			{"Current withdrawal rate", swr},
			{"Years to FIRE", optionalYears(result.YearsToFire)},
			{"Years to FIRE (real)", optionalYears(result.YearsToFireReal)},
		}))
		b.WriteString(valueStyle.Render(result.Message))
		b.WriteString("\n")
		return b.String()
	}

	csvOut := func() error {
		yearsCSV := func(years *int) string {
			if years == nil {
				return ""
			}
			return strconv.Itoa(*years)
		}
		return writeCSV(w,
			[]string{"fire_number", "current_swr", "years_to_fire", "years_to_fire_real", "message"},
			[][]string{{
				amount(result.FireNumber),
				swrCSV,
				yearsCSV(result.YearsToFire),
				yearsCSV(result.YearsToFireReal),
				result.Message,
			}})
	}

	return render(w, outputFormat, result, pretty, csvOut)
}

// Trend writes a trend forecast.
func Trend(w io.Writer, outputFormat string, result trend.Result, currency string) error {
	symbol := symbolOrDefault(currency)
	money := func(v float64) string { return format.CurrencyWithSymbol(v, symbol) }

	pretty := func() string {
		var b strings.Builder
		b.WriteString(RenderTitle("Historical Trend"))
		b.WriteString("\n")
		if result.InsufficientData {
			b.WriteString(warnStyle.Render(result.Message))
			b.WriteString("\n")
			return b.String()
		}
		b.WriteString(RenderKeyValues("", [][2]string{
			{"Monthly growth", money(result.MonthlyGrowth)},
			{"Annual growth rate", format.Percent(result.AnnualGrowthRate)},
			{"R²", strconv.FormatFloat(result.RSquared, 'f', constants.RSquaredPlaces, 64)},
			{"Samples", strconv.Itoa(result.SampleCount)},
		}))
		rows := make([][]string, 0, len(result.ForecastData))
		for _, year := range result.ForecastData {
			rows = append(rows, []string{
				strconv.Itoa(year.Year),
				strconv.Itoa(year.Age),
				money(year.NetWorth),
				money(year.BuyingPower),
			})
		}
		b.WriteString(RenderTable(Table{
			Title:   "Forecast",
			Headers: []string{"Year", "Age", "Net Worth", "Buying Power"},
			Rows:    rows,
		}))
		b.WriteString(valueStyle.Render(result.Message))
		b.WriteString("\n")
		return b.String()
	}

	csvOut := func() error {
		rows := make([][]string, 0, len(result.ForecastData))
		for _, year := range result.ForecastData {
			rows = append(rows, []string{
				strconv.Itoa(year.Year),
				strconv.Itoa(year.Age),
				amount(year.NetWorth),
				amount(year.BuyingPower),
			})
		}
		return writeCSV(w, []string{"year", "age", "net_worth", "buying_power"}, rows)
	}

	return render(w, outputFormat, result, pretty, csvOut)
}

// Nudges writes advice nudges.
func Nudges(w io.Writer, outputFormat string, nudges []domain.Nudge) error {
	if nudges == nil {
		nudges = []domain.Nudge{}
	}

	pretty := func() string {
		var b strings.Builder
		b.WriteString(RenderTitle("Advice"))
		b.WriteString("\n")
		if len(nudges) == 0 {
			b.WriteString(goodStyle.Render("No advice for this plan."))
			b.WriteString("\n")
			return b.String()
		}
		for _, nudge := range nudges {
			b.WriteString(headerStyle.Render(fmt.Sprintf("%s %s", nudge.Icon, nudge.Title)))
			b.WriteString("\n  ")
			b.WriteString(valueStyle.Render(nudge.Message))
			b.WriteString("\n")
		}
		return b.String()
	}

	csvOut := func() error {
		rows := make([][]string, 0, len(nudges))
		for _, nudge := range nudges {
			rows = append(rows, []string{nudge.Icon, nudge.Title, nudge.Message})
		}
		return writeCSV(w, []string{"icon", "title", "message"}, rows)
	}

	return render(w, outputFormat, nudges, pretty, csvOut)
}

// Warnings writes plan validation warnings in pretty form.
func Warnings(w io.Writer, warnings []string) error {
	if len(warnings) == 0 {
		_, err := io.WriteString(w, goodStyle.Render("Plan is valid.")+"\n")
		return err
	}
	_, err := io.WriteString(w, renderNotes(warnStyle, "!", warnings))
	return err
}
