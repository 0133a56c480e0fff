package descriptions

import (
	"fmt"
	"sort"
)

// Comprehensive tool descriptions with practical examples and use cases

const (
	PDFAnalyzeLayoutDescription = `Describe the form-fillable and visual layout of a PDF document as structured JSON.

**When to use:** Need to map a form or document into a machine-readable schema: which fields exist, where they sit on the page, and which visual elements (underlines, boxes, tables) frame them.

**What it returns:**
• acroform_fields: fully qualified field names mapped to their current values (null when unset or unreadable)
• interactive_fields: widget fields with page number, bbox, value and type (text, checkbox, radio, select, button, signature)
• text_content: every word with its bbox and an is_list_marker flag for tokens like "a." or "D."
• visual_elements: per page, short horizontal lines (underline inputs) and bordered boxes
• tables: ruled grids with bbox, row_count and col_count
• analysis_summary: has_acroform, interactive_field_count, page_count, table_count

**Coordinates:** PDF points, origin at the top-left of the page, y grows downward.

**Examples:**
• Form understanding: "Analyze intake-form.pdf and list the blank underline inputs next to their labels"
• Checklist parsing: "Find the a./b./c. options in survey.pdf and the boxes beside them"
• Data capture: "Read the filled values of application.pdf's AcroForm"

**Best practices:** Validate unknown files first. Partial failures never abort the analysis; affected sections come back empty and are listed under diagnostics.`

	PDFValidateFileDescription = `Verify PDF file integrity and readability before processing.

**When to use:** Before analyzing any PDF file, especially in automated workflows or when handling user uploads.

**Why it's useful:** Identifies missing, oversized, or corrupted files early and reports the page count of readable ones.

**Examples:**
• Batch processing safety: "Validate all PDFs in /forms/ before bulk layout analysis"
• Upload verification: "Check user-uploaded contract.pdf is valid before processing"

**Best practices:** Always run this first in automated workflows handling unknown PDFs.`

	PDFServerInfoDescription = `Get server status, available tools, and the PDFs in the default directory.

**When to use:** Starting work with the server, troubleshooting path errors, or discovering files to analyze.

**Why it's useful:** Shows the configured directory, the file size limit, and a cached listing of analyzable PDFs.

**Best practices:** Run at start of sessions.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"pdf_analyze_layout": PDFAnalyzeLayoutDescription,
	"pdf_validate_file":  PDFValidateFileDescription,
	"pdf_server_info":    PDFServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a sorted list of all available tool names
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UsageGuidance returns the usage guide reported by pdf_server_info.
func UsageGuidance(maxFileSize int64) string {
	return `PDF Layout Analyzer Usage Guide:

1. START WITH DISCOVERY:
   - Use 'pdf_server_info' to list the PDFs in the default directory

2. VALIDATE FILES:
   - Use 'pdf_validate_file' to check if a file is readable before analyzing it

3. ANALYZE LAYOUT:
   - Use 'pdf_analyze_layout' to get fields, words, shapes and tables
   - Check 'analysis_summary' for a quick overview
   - Check 'diagnostics' for sections that could not be extracted

IMPORTANT NOTES:
- Paths may be absolute or relative to the default directory
- The server can handle files up to ` + fmt.Sprintf("%d", maxFileSize/(1024*1024)) + `MB
- Scanned documents without a text layer yield no words; OCR is not performed
- Coordinates are in PDF points with the origin at the top-left of each page`
}
