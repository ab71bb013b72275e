package server

import (
	"context"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/entrypoints/mcp-pdf-reader/internal/common"
	"github.com/entrypoints/mcp-pdf-reader/internal/entity"
	"github.com/entrypoints/mcp-pdf-reader/internal/ingest"
	"github.com/entrypoints/mcp-pdf-reader/internal/pipeline"
)

// ReadPDFInput is the input schema for the read_local_pdf tool.
type ReadPDFInput struct {
	Path string `json:"path" jsonschema:"absolute or relative path to the PDF file"`
}

// PDFData is the success payload of read_local_pdf.
type PDFData struct {
	Text           string                  `json:"text"`
	PageCount      int                     `json:"page_count"`
	PagesExtracted int                     `json:"pages_extracted"`
	Metadata       entity.DocumentMetadata `json:"metadata"`
}

// ReadPDFOutput is the output schema for the read_local_pdf tool.
// Error carries the stable failure kind; Message is diagnostic only.
type ReadPDFOutput struct {
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
	Message string   `json:"message,omitempty"`
	Data    *PDFData `json:"data,omitempty"`
}

// ListPDFsInput is the input schema for the list_pdf_files tool.
type ListPDFsInput struct {
	Directory string `json:"directory,omitempty" jsonschema:"directory path to search for PDFs (default: current directory)"`
}

// ListPDFsOutput is the output schema for the list_pdf_files tool.
type ListPDFsOutput struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    *entity.Listing `json:"data,omitempty"`
}

// ProcessInvoicesInput is the input schema for the process_invoices tool.
type ProcessInvoicesInput struct {
	Directory string `json:"directory" jsonschema:"directory of invoice PDFs to process"`
}

// ProcessInvoicesData is the success payload of process_invoices.
type ProcessInvoicesData struct {
	Results []pipeline.DocumentResult `json:"results"`
	Stats   pipeline.BatchStats       `json:"stats"`
}

// ProcessInvoicesOutput is the output schema for the process_invoices tool.
type ProcessInvoicesOutput struct {
	Success bool                 `json:"success"`
	Error   string               `json:"error,omitempty"`
	Message string               `json:"message,omitempty"`
	Data    *ProcessInvoicesData `json:"data,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "read_local_pdf",
		Description: "Read and extract text content from a local PDF file",
	}, s.handleReadPDF)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_pdf_files",
		Description: "List all PDF files in a given directory",
	}, s.handleListPDFs)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "process_invoices",
		Description: "Extract structured invoice records from every PDF in a directory",
	}, s.handleProcessInvoices)
}

// handleReadPDF handles the read_local_pdf tool invocation.
func (s *Server) handleReadPDF(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReadPDFInput,
) (*mcp.CallToolResult, ReadPDFOutput, error) {
	ctx = common.WithRequestID(ctx, uuid.NewString())

	res := s.extractor.Extract(ctx, input.Path)
	if !res.OK() {
		return nil, ReadPDFOutput{
			Success: false,
			Error:   string(res.Failure.Kind),
			Message: res.Failure.Message,
		}, nil
	}
	return nil, ReadPDFOutput{
		Success: true,
		Data: &PDFData{
			Text:           res.Text,
			PageCount:      res.PageCount,
			PagesExtracted: res.PagesExtracted,
			Metadata:       res.Metadata,
		},
	}, nil
}

// handleListPDFs handles the list_pdf_files tool invocation.
func (s *Server) handleListPDFs(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ListPDFsInput,
) (*mcp.CallToolResult, ListPDFsOutput, error) {
	dir := input.Directory
	if dir == "" {
		dir = "."
	}

	listing, err := ingest.ListPDFFiles(s.logger, dir)
	if err != nil {
		return nil, ListPDFsOutput{
			Success: false,
			Error:   common.ErrorCode(err),
			Message: err.Error(),
		}, nil
	}
	return nil, ListPDFsOutput{Success: true, Data: &listing}, nil
}

// handleProcessInvoices handles the process_invoices tool invocation.
func (s *Server) handleProcessInvoices(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProcessInvoicesInput,
) (*mcp.CallToolResult, ProcessInvoicesOutput, error) {
	ctx = common.WithRequestID(ctx, uuid.NewString())

	results, stats, err := s.processor.ProcessDirectory(ctx, input.Directory)
	if err != nil {
		return nil, ProcessInvoicesOutput{
			Success: false,
			Error:   common.ErrorCode(err),
			Message: err.Error(),
		}, nil
	}
	return nil, ProcessInvoicesOutput{
		Success: true,
		Data:    &ProcessInvoicesData{Results: results, Stats: stats},
	}, nil
}
