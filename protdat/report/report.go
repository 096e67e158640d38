// Package report turns per-asset extraction reports into the index files the
// original tool shipped alongside extracted assets: DATInfo.xml and
// index.csv.
package report

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/legaia-mod/protdat-get/protdat"
	"github.com/legaia-mod/protdat-get/protdat/storage"
)

// DATInfo.xml layout: a FILES root with one FILE element per extracted asset
// and nested TIM elements per sub-chunk.
type xmlFiles struct {
	XMLName xml.Name  `xml:"FILES"`
	Name    string    `xml:"Name,attr"`
	Files   []xmlFile `xml:"FILE"`
}

type xmlFile struct {
	Name string `xml:"Name,attr"`
	// Header carries the pack's 4-byte header, base64 encoded, when the
	// asset was split; empty otherwise.
	Header string   `xml:"Header,attr"`
	TIMs   []xmlTIM `xml:"TIM"`
}

type xmlTIM struct {
	Name string `xml:"Name,attr"`
}

// WriteXML writes DATInfo.xml content for the extracted assets. Rejected and
// failed slots are omitted here (they carry no file); the CSV is the full
// audit record.
func WriteXML(w io.Writer, stem string, reports []protdat.AssetReport) error {
	doc := xmlFiles{Name: stem}
	for _, r := range reports {
		if r.Status != protdat.StatusOK {
			continue
		}
		fe := xmlFile{Name: r.Name}
		if r.Pack.State == protdat.PackDetected {
			fe.Header = base64.StdEncoding.EncodeToString(r.Pack.Header)
			for _, name := range r.TIMNames {
				fe.TIMs = append(fe.TIMs, xmlTIM{Name: name})
			}
		}
		doc.Files = append(doc.Files, fe)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode DATInfo.xml: %w", err)
	}
	return nil
}

var csvHeader = []string{"p_index", "offset_hex", "size", "status", "reason", "is_tim_pack", "digest", "bin_path"}

// WriteCSV writes the index.csv audit record: one row per TOC slot, accepted
// or not, so a human can see which assets were skipped and why.
func WriteCSV(w io.Writer, reports []protdat.AssetReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range reports {
		isPack := "0"
		if r.Pack.State == protdat.PackDetected {
			isPack = "1"
		}
		binPath := ""
		if r.Status == protdat.StatusOK {
			binPath = r.Name
		}
		row := []string{
			strconv.Itoa(r.Index),
			fmt.Sprintf("0x%08X", r.StartByte),
			strconv.FormatInt(r.SizeBytes, 10),
			r.Status,
			r.Reason,
			isPack,
			r.Digest.String(),
			binPath,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", r.Index, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Emit writes both index files into the sink.
func Emit(sink storage.Sink, stem string, reports []protdat.AssetReport) error {
	var xmlBuf bytes.Buffer
	if err := WriteXML(&xmlBuf, stem, reports); err != nil {
		return err
	}
	if err := sink.WriteFile("DATInfo.xml", xmlBuf.Bytes()); err != nil {
		return err
	}

	var csvBuf bytes.Buffer
	if err := WriteCSV(&csvBuf, reports); err != nil {
		return err
	}
	return sink.WriteFile("index.csv", csvBuf.Bytes())
}
