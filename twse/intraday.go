package twse

import (
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/yclin/twreport/fetch"
)

/*
	{
	    "msgArray": [
	        {
	            "c": "2330",
	            "n": "台積電",
	            "z": "1070.00",
	            "b": "1065.00_1060.00_1055.00_1050.00_1045.00_",
	            "tlong": "1756445400000"
	        }
	    ],
	    "rtmessage": "OK",
	    "rtcode": "0000"
	}
*/

const intradayURL = "https://mis.twse.com.tw/stock/api/getStockInfo.jsp?json=1&delay=0&ex_ch="

// Intraday returns the last intraday trade price for a symbol. The endpoint
// answers for both the listed and the over-the-counter channel, whichever
// knows the symbol. Numbers come back as strings and empty fields as "-",
// so the payload is picked apart leniently rather than unmarshalled.
func Intraday(client *http.Client, symbol string) (float64, error) {
	addr := intradayURL + url.QueryEscape(fmt.Sprintf("tse_%s.tw|otc_%s.tw", symbol, symbol))

	var jobj any
	if err := fetch.JSON(client, addr, &jobj); err != nil {
		return math.NaN(), fmt.Errorf("error retrieving %q: %w", symbol, err)
	}

	jval, err := jsonpath.Get(`$.msgArray[0].z`, jobj)
	if err != nil {
		return math.NaN(), fmt.Errorf("error parsing %q: %w", symbol, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	s, _ := jval.(string)
	if s == "" || s == "-" {
		// no trade yet, the best bid moves instead
		log.Println("'z' is empty, falling back to 'b'")
		jval, err = jsonpath.Get(`$.msgArray[0].b`, jobj)
		if err != nil {
			return math.NaN(), fmt.Errorf("error parsing %q: %w", symbol, err)
		}
		if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
			jval = jlist[0]
		}
		bid, ok := jval.(string)
		if !ok {
			return math.NaN(), fmt.Errorf("cannot read value for %q: neither a last price nor a bid", symbol)
		}
		// the bid field is an underscore separated ladder, best first
		s, _, _ = strings.Cut(bid, "_")
	}

	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), fmt.Errorf("cannot read value for %q: invalid string %q: %w", symbol, s, err)
	}
	if val == 0 {
		return math.NaN(), fmt.Errorf("empty quote for %s, no value to return", symbol)
	}
	return val, nil
}
