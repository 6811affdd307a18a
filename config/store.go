package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"go-flexi/debug"
	"go-flexi/flexi"
	"go-flexi/midi"
)

// SheetName is the worksheet holding the slots in .xlsx tables
const SheetName = "Slots"

var sheetHeader = []string{"Slot", "Type", "Channel", "Number", "Command", "Knob Mode", "Send Value", "Send When Received"}

// Channel is a MIDI channel as users write it: 1-16, or "any"
type Channel int

func (c Channel) String() string {
	if int(c) == midi.AnyChannel {
		return "any"
	}
	return strconv.Itoa(int(c) + 1)
}

// ParseChannel is the inverse of Channel.String
func ParseChannel(s string) (Channel, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "any") || s == "*" {
		return Channel(midi.AnyChannel), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 16 {
		return 0, errors.Errorf("invalid channel %q (want 1-16 or any)", s)
	}
	return Channel(n - 1), nil
}

func (c Channel) MarshalYAML() (interface{}, error) {
	if int(c) == midi.AnyChannel {
		return "any", nil
	}
	return int(c) + 1, nil
}

func (c *Channel) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: channel must be a number or \"any\"", value.Line)
	}
	ch, err := ParseChannel(value.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d", value.Line)
	}
	*c = ch
	return nil
}

// SlotRecord is one table row in a file. Slot numbers are 1-based.
type SlotRecord struct {
	Slot                  int     `yaml:"slot"`
	Type                  string  `yaml:"type"`
	Channel               Channel `yaml:"channel"`
	Number                int     `yaml:"number"`
	Command               string  `yaml:"command"`
	KnobMode              string  `yaml:"knobMode,omitempty"`
	SendValue             bool    `yaml:"sendValue,omitempty"`
	SendValueWhenReceived bool    `yaml:"sendValueWhenReceived,omitempty"`
}

type tableFile struct {
	Slots []SlotRecord `yaml:"slots"`
}

// RecordFromSlot converts slot i for writing
func RecordFromSlot(i int, s flexi.Slot) SlotRecord {
	return SlotRecord{
		Slot:                  i + 1,
		Type:                  s.Kind.String(),
		Channel:               Channel(s.Channel),
		Number:                s.Number,
		Command:               s.Command.String(),
		KnobMode:              s.KnobMode.String(),
		SendValue:             s.SendValue,
		SendValueWhenReceived: s.SendValueWhenReceived,
	}
}

// ToSlot parses the record
func (r SlotRecord) ToSlot() (flexi.Slot, error) {
	typ := r.Type
	if strings.TrimSpace(typ) == "" {
		typ = midi.KindNone.String()
	}
	kind, err := midi.ParseKind(typ)
	if err != nil {
		return flexi.Slot{}, err
	}
	if r.Number < 0 || r.Number > 127 {
		return flexi.Slot{}, errors.Errorf("number %d out of range", r.Number)
	}
	cmd, err := flexi.ParseCommand(r.Command)
	if err != nil {
		return flexi.Slot{}, err
	}
	mode, err := flexi.ParseKnobMode(r.KnobMode)
	if err != nil {
		return flexi.Slot{}, err
	}
	return flexi.Slot{
		Signature:             midi.Signature{Kind: kind, Channel: int(r.Channel), Number: r.Number},
		Command:               cmd,
		KnobMode:              mode,
		SendValue:             r.SendValue,
		SendValueWhenReceived: r.SendValueWhenReceived,
	}, nil
}

// Store reads and writes binding tables; the format follows the file extension
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

// Import reads a table file. The result is as long as the highest slot number.
func (st *Store) Import(path string) ([]flexi.Slot, error) {
	var (
		records []SlotRecord
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		records, err = readYAML(path)
	case ".xlsx":
		records, err = readXLSX(path)
	case ".xml":
		records, err = readXML(path)
	default:
		return nil, errors.Errorf("unsupported table format %q", ext)
	}
	if err != nil {
		return nil, err
	}

	n := 0
	for _, r := range records {
		if r.Slot < 1 {
			return nil, errors.Errorf("invalid slot number %d", r.Slot)
		}
		n = max(n, r.Slot)
	}
	slots := make([]flexi.Slot, n)
	seen := make(map[int]bool, len(records))
	for _, r := range records {
		if seen[r.Slot] {
			return nil, errors.Errorf("slot %d listed twice", r.Slot)
		}
		seen[r.Slot] = true
		s, err := r.ToSlot()
		if err != nil {
			return nil, errors.Wrapf(err, "slot %d", r.Slot)
		}
		slots[r.Slot-1] = s
	}
	debug.Log("config", "imported %d records from %s", len(records), path)
	return slots, nil
}

// Export writes all non-empty slots
func (st *Store) Export(path string, slots []flexi.Slot) error {
	var records []SlotRecord
	for i, s := range slots {
		if s.IsEmpty() {
			continue
		}
		records = append(records, RecordFromSlot(i, s))
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return writeYAML(path, records)
	case ".xlsx":
		return writeXLSX(path, records)
	case ".xml":
		return writeXML(path, records)
	default:
		return errors.Errorf("unsupported table format %q", ext)
	}
}

// YAML

func readYAML(path string) ([]SlotRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, err
	}
	return tf.Slots, nil
}

func writeYAML(path string, records []SlotRecord) error {
	data, err := yaml.Marshal(tableFile{Slots: records})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// XLSX

func readXLSX(path string) ([]SlotRecord, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	rows, err := wb.GetRows(SheetName)
	if err != nil {
		return nil, err
	}

	var records []SlotRecord
	for idx, row := range rows {
		// header row
		if idx == 0 || len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		r, err := recordFromRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "sheet %s row %d", SheetName, idx+1)
		}
		records = append(records, r)
	}
	return records, nil
}

func recordFromRow(row []string) (SlotRecord, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	var r SlotRecord
	var err error
	if r.Slot, err = strconv.Atoi(cell(0)); err != nil {
		return r, errors.Errorf("invalid slot %q", cell(0))
	}
	r.Type = cell(1)
	if r.Channel, err = ParseChannel(cell(2)); err != nil {
		return r, err
	}
	if r.Number, err = strconv.Atoi(cell(3)); err != nil {
		return r, errors.Errorf("invalid number %q", cell(3))
	}
	r.Command = cell(4)
	r.KnobMode = cell(5)
	r.SendValue = parseBool(cell(6))
	r.SendValueWhenReceived = parseBool(cell(7))
	return r, nil
}

func writeXLSX(path string, records []SlotRecord) error {
	wb := excelize.NewFile()
	idx := wb.NewSheet(SheetName)
	wb.SetActiveSheet(idx)
	wb.DeleteSheet("Sheet1")

	setRow := func(row int, values []interface{}) error {
		for col, v := range values {
			axis, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := wb.SetCellValue(SheetName, axis, v); err != nil {
				return err
			}
		}
		return nil
	}

	header := make([]interface{}, len(sheetHeader))
	for i, h := range sheetHeader {
		header[i] = h
	}
	if err := setRow(1, header); err != nil {
		return err
	}
	for i, r := range records {
		values := []interface{}{r.Slot, r.Type, r.Channel.String(), r.Number, r.Command, r.KnobMode, r.SendValue, r.SendValueWhenReceived}
		if err := setRow(i+2, values); err != nil {
			return err
		}
	}
	return wb.SaveAs(path)
}

// XML

func readXML(path string) ([]SlotRecord, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, err
	}
	if doc.SelectElement("flexi") == nil {
		return nil, errors.New("missing <flexi> root element")
	}

	var records []SlotRecord
	for _, el := range doc.FindElements("./flexi/slot") {
		row := []string{
			el.SelectAttrValue("index", ""),
			el.SelectAttrValue("type", ""),
			el.SelectAttrValue("channel", ""),
			el.SelectAttrValue("number", "0"),
			el.SelectAttrValue("command", ""),
			el.SelectAttrValue("knobMode", ""),
			el.SelectAttrValue("sendValue", ""),
			el.SelectAttrValue("sendValueWhenReceived", ""),
		}
		r, err := recordFromRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "slot element %q", row[0])
		}
		records = append(records, r)
	}
	return records, nil
}

func writeXML(path string, records []SlotRecord) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("flexi")
	for _, r := range records {
		el := root.CreateElement("slot")
		el.CreateAttr("index", strconv.Itoa(r.Slot))
		el.CreateAttr("type", r.Type)
		el.CreateAttr("channel", r.Channel.String())
		el.CreateAttr("number", strconv.Itoa(r.Number))
		el.CreateAttr("command", r.Command)
		el.CreateAttr("knobMode", r.KnobMode)
		el.CreateAttr("sendValue", strconv.FormatBool(r.SendValue))
		el.CreateAttr("sendValueWhenReceived", strconv.FormatBool(r.SendValueWhenReceived))
	}
	doc.Indent(2)
	return errors.Wrapf(doc.WriteToFile(path), "write %s", path)
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		// spreadsheets often say yes/no or x
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes", "y", "x", "on":
			return true
		}
		return false
	}
	return b
}
