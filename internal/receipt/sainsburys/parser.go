// Package sainsburys parses Sainsbury's grocery delivery receipts.
//
// The input is the raw line dump of a PDF text extractor: layout is
// fragile, long item names wrap across physical lines, and the amount
// field may be a count ("2") or a weight ("0.86kg"). The splitter is
// heuristic and its tie-break rules are load-bearing: the price starts
// after the LAST "£" on a logical line, and the item name starts at the
// FIRST uppercase character. Both have been validated against real
// receipts; do not swap either for its first/last counterpart.
package sainsburys

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/basketsplit/basketsplit/internal/receipt"
)

const (
	orderIDPrefix  = "Your receipt for order:"
	slotTimePrefix = "Slot time:"
	deliveryMarker = "Delivery summary"
	orderMarker    = "Order summary"

	currencySymbol = "£"

	// Receipts print the slot like "Thursday 3rd August 2023, 9:00pm -
	// 10:00pm". After the ordinal suffix and the window end are removed
	// the remainder matches this layout.
	slotTimeLayout = "Monday 2 January 2006 3:04pm"
)

// unitSuffixes maps a lowercase amount suffix to the unit kind it
// implies. Only kg-weighed produce appears on current receipts; new
// units are added here rather than as string comparisons in the
// classifier.
var unitSuffixes = map[string]receipt.UnitKind{
	"kg": receipt.UnitWeight,
}

// Parser implements receipt.Parser for the Sainsbury's PDF format.
type Parser struct{}

// New returns a Sainsbury's receipt parser.
func New() *Parser { return &Parser{} }

// Retailer returns the registry key for this format.
func (p *Parser) Retailer() string { return "sainsburys" }

// ExtractHeader locates the order id and the delivery slot time.
func (p *Parser) ExtractHeader(lines []string) (receipt.OrderHeader, error) {
	var header receipt.OrderHeader

	idLine, idPos := findPrefix(lines, orderIDPrefix)
	if idPos < 0 {
		return header, receipt.NewLineError(receipt.ErrMalformedHeader, "", -1,
			"no line starts with %q", orderIDPrefix)
	}

	// Split at the first colon only; the remainder is the order id.
	idText := strings.TrimSpace(idLine[strings.Index(idLine, ":")+1:])
	orderID, err := strconv.ParseInt(idText, 10, 64)
	if err != nil || orderID <= 0 {
		return header, receipt.NewLineError(receipt.ErrMalformedHeader, idLine, idPos,
			"order id %q is not a positive integer", idText)
	}

	slotLine, slotPos := findPrefix(lines, slotTimePrefix)
	if slotPos < 0 {
		return header, receipt.NewLineError(receipt.ErrMalformedHeader, "", -1,
			"no line starts with %q", slotTimePrefix)
	}

	// The timestamp itself contains colons ("9:00pm - 10:00pm"), so only
	// the first colon delimits the marker from the value.
	slotText := strings.TrimSpace(slotLine[strings.Index(slotLine, ":")+1:])
	orderTime, reason := parseSlotTime(slotText)
	if reason != "" {
		return header, receipt.NewLineError(receipt.ErrMalformedHeader, slotLine, slotPos, "%s", reason)
	}

	header.OrderID = orderID
	header.OrderTime = orderTime
	return header, nil
}

// parseSlotTime parses "<Weekday> <Day><suffix> <Month> <Year>,
// <start>[am|pm] - <end>[am|pm]", keeping only the start of the
// delivery window. Returns a non-empty reason on failure.
func parseSlotTime(text string) (time.Time, string) {
	datePart, hoursPart, found := strings.Cut(text, ",")
	if !found {
		return time.Time{}, "slot time has no date/hours separator"
	}

	fields := strings.Fields(datePart)
	if len(fields) != 4 {
		return time.Time{}, "slot date is not '<Weekday> <Day><suffix> <Month> <Year>'"
	}

	// The day carries a two-letter ordinal suffix ("3rd"). Verify the
	// suffix really is two letters before stripping it, so a receipt
	// printing a bare day number fails loudly instead of losing digits.
	day := fields[1]
	if len(day) < 3 || !isAlpha(day[len(day)-2]) || !isAlpha(day[len(day)-1]) {
		return time.Time{}, "day " + strconv.Quote(day) + " has no ordinal suffix"
	}
	day = day[:len(day)-2]

	// Keep only the start of the delivery window.
	start := strings.TrimSpace(strings.SplitN(hoursPart, " - ", 2)[0])

	composed := fields[0] + " " + day + " " + fields[2] + " " + fields[3] + " " + start
	t, err := time.Parse(slotTimeLayout, composed)
	if err != nil {
		return time.Time{}, "slot time " + strconv.Quote(composed) + " does not match " + strconv.Quote(slotTimeLayout)
	}
	return t, ""
}

// ExtractItems isolates the item block and splits every logical line
// into one ItemRecord.
func (p *Parser) ExtractItems(lines []string) ([]receipt.ItemRecord, error) {
	block, offset, err := itemBlock(lines)
	if err != nil {
		return nil, err
	}

	items := make([]receipt.ItemRecord, 0, len(block))

	// Accumulator for wrapped item names: physical lines without a "£"
	// are buffered until the line carrying the price arrives.
	var buffer string
	bufferStart := -1

	for i, line := range block {
		pos := offset + i

		localIdx := strings.LastIndex(line, currencySymbol)
		if localIdx < 0 {
			// Start or middle of a wrapped item name.
			if buffer == "" {
				bufferStart = pos
			}
			buffer += line
			continue
		}

		logical := buffer + line
		poundIdx := len(buffer) + localIdx
		logicalPos := pos
		if bufferStart >= 0 {
			logicalPos = bufferStart
		}
		buffer = ""
		bufferStart = -1

		item, err := splitItemLine(logical, poundIdx, logicalPos)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if buffer != "" {
		return nil, receipt.NewLineError(receipt.ErrFieldSplit, buffer, bufferStart,
			"item text has no %q before end of item block", currencySymbol)
	}

	return items, nil
}

// splitItemLine splits one logical item line into amount, name and
// price, then classifies the amount.
func splitItemLine(logical string, poundIdx, pos int) (receipt.ItemRecord, error) {
	var item receipt.ItemRecord

	// The item name starts at the first uppercase character. Amounts are
	// digits with lowercase unit suffixes, so everything before it is the
	// amount field.
	nameIdx := -1
	for i, r := range logical {
		if unicode.IsUpper(r) {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 || nameIdx > poundIdx {
		return item, receipt.NewLineError(receipt.ErrFieldSplit, logical, pos,
			"no uppercase name start before %q", currencySymbol)
	}

	amountText := strings.TrimSpace(logical[:nameIdx])
	name := strings.TrimSpace(logical[nameIdx:poundIdx])
	priceText := logical[poundIdx+len(currencySymbol):]

	price, err := strconv.ParseFloat(strings.TrimSpace(priceText), 64)
	if err != nil || price < 0 {
		return item, receipt.NewLineError(receipt.ErrFieldSplit, logical, pos,
			"price %q is not a non-negative decimal", priceText)
	}

	item, cerr := classifyAmount(amountText, pos, logical)
	if cerr != nil {
		return item, cerr
	}
	item.Name = name
	item.Price = price
	return item, nil
}

// classifyAmount decides whether the amount field is a count or a
// weight. A registered unit suffix makes it a weight; otherwise it must
// be a plain integer count.
func classifyAmount(amount string, pos int, line string) (receipt.ItemRecord, error) {
	var item receipt.ItemRecord

	for suffix, kind := range unitSuffixes {
		if !strings.HasSuffix(amount, suffix) {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSuffix(amount, suffix), 64)
		if err != nil || value <= 0 {
			return item, receipt.NewLineError(receipt.ErrInvalidAmount, line, pos,
				"amount %q is not a positive %s weight", amount, suffix)
		}
		item.Kind = kind
		item.WeightKG = value
		return item, nil
	}

	quantity, err := strconv.Atoi(amount)
	if err != nil || quantity < 1 {
		return item, receipt.NewLineError(receipt.ErrInvalidAmount, line, pos,
			"amount %q is not a positive integer quantity", amount)
	}
	item.Kind = receipt.UnitCount
	item.Quantity = quantity
	return item, nil
}

// itemBlock returns the lines strictly between the delivery-summary and
// order-summary markers, plus the index of the first returned line. If
// a marker repeats, the last occurrence wins.
func itemBlock(lines []string) ([]string, int, error) {
	start, end := -1, -1
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, deliveryMarker):
			start = i
		case strings.HasPrefix(line, orderMarker):
			end = i
		}
	}

	if start < 0 {
		return nil, 0, receipt.NewLineError(receipt.ErrMissingSectionMarkers, "", -1,
			"no line starts with %q", deliveryMarker)
	}
	if end < 0 {
		return nil, 0, receipt.NewLineError(receipt.ErrMissingSectionMarkers, "", -1,
			"no line starts with %q", orderMarker)
	}
	if start >= end {
		return nil, 0, receipt.NewLineError(receipt.ErrMissingSectionMarkers, lines[start], start,
			"%q marker appears after %q", deliveryMarker, orderMarker)
	}

	return lines[start+1 : end], start + 1, nil
}

// findPrefix returns the first line starting with prefix and its index,
// or ("", -1).
func findPrefix(lines []string, prefix string) (string, int) {
	for i, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return line, i
		}
	}
	return "", -1
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
