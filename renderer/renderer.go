// Package renderer converts a portfolio report into document form.
package renderer

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/nao1215/markdown"
	"github.com/yclin/twreport"
)

// ReportMarkdown renders the full daily report as a markdown document.
func ReportMarkdown(r *twreport.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("台股每日投資報告 (%s)", r.Date))
	doc.PlainText(fmt.Sprintf("產生時間: %s", r.GeneratedAt.Format("2006-01-02 15:04")))

	doc.H2("總覽")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"項目", "金額"},
		Rows: [][]string{
			{"市值", r.Totals.MarketValue.String()},
			{"成本", r.Totals.CostBasis.String()},
			{"未實現損益", r.Totals.Unrealized.SignedString()},
			{"單日損益", r.Totals.DayPNL.SignedString()},
		},
	})

	doc.H2("個股明細")
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"代碼", "名稱", "市場", "收盤", "漲跌", "漲跌幅", "張數", "均價", "市值", "單日損益", "未實現損益"},
	}
	for _, p := range r.Positions {
		table.Rows = append(table.Rows, positionRow(p))
	}
	doc.Table(table)

	doc.H2("相關新聞")
	for _, p := range r.Positions {
		doc.H3(strings.TrimSpace(p.Symbol + " " + p.Name))
		if len(p.News) == 0 {
			doc.PlainText("無最新新聞")
			continue
		}
		lines := make([]string, 0, len(p.News))
		for _, n := range p.News {
			lines = append(lines, fmt.Sprintf("[%s](%s) (%s) %s", n.Title, n.Link, n.Origin, n.Published))
		}
		doc.BulletList(lines...)
	}

	return doc.String()
}

// positionRow formats one detail table row. An unresolved position renders
// an explicit no-price cell, never zeros.
func positionRow(p *twreport.PositionReport) []string {
	if !p.Resolved() {
		return []string{
			p.Symbol, orDash(p.Name), p.Source.String(),
			"無法取得價格", "-", "-",
			p.Lots.String(), p.AvgCost.String(),
			"-", "-", "-",
		}
	}

	change := "-"
	if p.Quote.Change.Valid {
		change = twreport.M(p.Quote.Change.Decimal, twreport.DefaultCurrency).SignedString()
	}
	pct := "-"
	if p.HasDayPct {
		pct = p.DayPct.SignedString()
	}
	return []string{
		p.Symbol, orDash(p.Name), p.Source.String(),
		twreport.M(p.Quote.Close.Decimal, twreport.DefaultCurrency).String(),
		change, pct,
		p.Lots.String(), p.AvgCost.String(),
		p.MarketValue.String(), p.DayPNL.SignedString(), p.Unrealized.SignedString(),
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
