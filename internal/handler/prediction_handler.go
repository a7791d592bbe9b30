package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aayushsingh8/fake-news-prediction/internal/config"
	"github.com/aayushsingh8/fake-news-prediction/pkg/credibility"
	"github.com/aayushsingh8/fake-news-prediction/pkg/ensemble"
	"github.com/aayushsingh8/fake-news-prediction/pkg/extract"
	"github.com/aayushsingh8/fake-news-prediction/pkg/prediction"
	"github.com/aayushsingh8/fake-news-prediction/pkg/textclean"
)

type EnsemblePredictor interface {
	Predict(ctx context.Context, text, sourceURL string) prediction.Ensemble
	Available() bool
}

type ArticleExtractor interface {
	Extract(ctx context.Context, rawURL string) (string, error)
}

type PredictionHandler struct {
	transformer ensemble.TextClassifier
	document    ensemble.TextClassifier
	predictor   EnsemblePredictor
	extractor   ArticleExtractor
	table       *credibility.Table
	limits      config.InputConfig
}

func NewPredictionHandler(
	transformer, document ensemble.TextClassifier,
	predictor EnsemblePredictor,
	extractor ArticleExtractor,
	table *credibility.Table,
	limits config.InputConfig,
) *PredictionHandler {
	return &PredictionHandler{
		transformer: transformer,
		document:    document,
		predictor:   predictor,
		extractor:   extractor,
		table:       table,
		limits:      limits,
	}
}

// PredictText classifies pasted text with the transformer alone.
func (h *PredictionHandler) PredictText(c *gin.Context) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		respondError(c, inputError("Invalid input: text is required"))
		return
	}

	if !h.transformer.Available() {
		respondError(c, errNotConfigured)
		return
	}

	cleaned := textclean.Clean(req.Text)
	if cleaned == "" {
		respondError(c, inputError("Invalid input: text contains no analyzable content"))
		return
	}

	res, ok := h.classify(c, h.transformer, cleaned)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, singleModelResponse(cleaned, res))
}

// ExtractURL fetches an article and classifies it with the transformer.
func (h *PredictionHandler) ExtractURL(c *gin.Context) {
	var req URLRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		respondError(c, inputError("Invalid input: url is required"))
		return
	}

	if !h.transformer.Available() {
		respondError(c, errNotConfigured)
		return
	}

	cleaned, err := h.textFromURL(c.Request.Context(), req.URL)
	if err != nil {
		respondError(c, err)
		return
	}

	res, ok := h.classify(c, h.transformer, cleaned)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, ExtractURLResponse{
		ExtractedText: textclean.Truncate(cleaned, h.limits.ExtractedPreviewChars),
		Prediction:    singleModelResponse(cleaned, res),
	})
}

// AnalyzeDocument classifies an uploaded file with the document model. The
// file arrives either base64 encoded in JSON or as a multipart upload.
func (h *PredictionHandler) AnalyzeDocument(c *gin.Context) {
	doc, err := h.readDocument(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if !h.document.Available() {
		respondError(c, errNotConfigured)
		return
	}

	cleaned, err := h.textFromDocument(doc)
	if err != nil {
		respondError(c, err)
		return
	}

	requestLogger(c).Info("processing document", "filename", doc.Filename, "mime_type", doc.MimeType, "chars", len(cleaned))

	res, ok := h.classify(c, h.document, cleaned)
	if !ok {
		return
	}

	out := singleModelResponse(cleaned, res)
	out.Filename = doc.Filename
	c.JSON(http.StatusOK, out)
}

// EnsemblePredict runs both models over text, an article URL or a document
// and returns the weighted decision. A failure of both models is reported
// as label UNKNOWN with status 200.
func (h *PredictionHandler) EnsemblePredict(c *gin.Context) {
	log := requestLogger(c)

	in, err := h.readEnsembleRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if !h.predictor.Available() {
		respondError(c, errNotConfigured)
		return
	}

	ctx := c.Request.Context()
	text, sourceURL := "", in.sourceURL

	switch {
	case in.url != "":
		sourceURL = in.url
		text, err = h.textFromURL(ctx, in.url)
	case in.doc != nil:
		text, err = h.textFromDocument(in.doc)
	default:
		text = textclean.Clean(in.text)
		if text == "" {
			err = inputError("Invalid input: text contains no analyzable content")
		}
	}
	if err != nil {
		respondError(c, err)
		return
	}

	result := h.predictor.Predict(ctx, text, sourceURL)

	tier := credibility.Unknown
	if sourceURL != "" {
		tier = h.table.Classify(sourceURL)
	}

	log.Info("prediction complete",
		"label", result.Label,
		"confidence", result.Confidence,
		"source_credibility", tier,
		"transformer_ok", result.Models.Transformer != nil,
		"judge_ok", result.Models.Judge != nil,
	)

	c.JSON(http.StatusOK, EnsembleResponse{
		Text:              text,
		Label:             result.Label,
		Score:             result.Confidence,
		Explanation:       result.Explanation,
		SourceCredibility: tier,
		Ensemble:          result,
		Raw:               result.Models,
	})
}

// ensembleInput is a validated EnsembleRequest with any file already
// decoded.
type ensembleInput struct {
	text      string
	url       string
	sourceURL string
	doc       *uploadedDocument
}

func (h *PredictionHandler) readEnsembleRequest(c *gin.Context) (*ensembleInput, error) {
	var req EnsembleRequest
	var doc *uploadedDocument

	if isMultipart(c) {
		req.Text = c.PostForm("text")
		req.SourceURL = c.PostForm("sourceUrl")
		req.URL = c.PostForm("url")
		if _, err := c.FormFile("file"); err == nil {
			d, err := h.readMultipartDocument(c)
			if err != nil {
				return nil, err
			}
			doc = d
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		return nil, inputError("Invalid input: request body must be JSON")
	}

	in := &ensembleInput{
		text:      strings.TrimSpace(req.Text),
		url:       strings.TrimSpace(req.URL),
		sourceURL: strings.TrimSpace(req.SourceURL),
		doc:       doc,
	}

	provided := 0
	for _, given := range []bool{in.text != "", in.url != "", doc != nil || req.File != ""} {
		if given {
			provided++
		}
	}

	switch {
	case provided == 0:
		return nil, inputError("Invalid input: one of text, url or file is required")
	case provided > 1:
		return nil, inputError("Invalid input: provide only one of text, url or file")
	}

	if req.File != "" {
		if req.MimeType == "" && req.Filename == "" {
			return nil, inputError("Invalid input: mimeType is required with file")
		}
		d, err := h.decodeDocument(req.File, req.Filename, req.MimeType)
		if err != nil {
			return nil, err
		}
		in.doc = d
	}

	return in, nil
}

func (h *PredictionHandler) textFromURL(ctx context.Context, rawURL string) (string, error) {
	raw, err := h.extractor.Extract(ctx, rawURL)
	if err != nil {
		return "", err
	}

	cleaned := textclean.Clean(raw)
	if err := extract.RequireContent(cleaned, h.limits.MinArticleChars); err != nil {
		return "", err
	}
	return cleaned, nil
}

func (h *PredictionHandler) textFromDocument(doc *uploadedDocument) (string, error) {
	cleaned := textclean.Clean(extract.ExtractDocumentText(doc.Data, doc.MimeType))
	if err := extract.RequireContent(cleaned, h.limits.MinDocumentChars); err != nil {
		return "", err
	}
	return cleaned, nil
}

// classify calls a single model; there is nothing to fall back to, so a
// failure is a 502.
func (h *PredictionHandler) classify(c *gin.Context, model ensemble.TextClassifier, text string) (*prediction.Result, bool) {
	res, err := model.Classify(c.Request.Context(), text)
	if err != nil {
		requestLogger(c).Error("model inference failed", "model", model.Name(), "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Model inference failed"})
		return nil, false
	}

	requestLogger(c).Info("prediction complete", "model", model.Name(), "label", res.Label, "score", res.Score)
	return res, true
}

func singleModelResponse(text string, res *prediction.Result) PredictionResponse {
	return PredictionResponse{
		Text:        text,
		Label:       res.Label,
		Score:       res.Score,
		Explanation: fmt.Sprintf("Classified as %s by %s", res.Label, res.Model),
		Model:       res.Model,
		Raw:         res.Raw,
	}
}

type uploadedDocument struct {
	Data     []byte
	Filename string
	MimeType string
}

func (h *PredictionHandler) readDocument(c *gin.Context) (*uploadedDocument, error) {
	if isMultipart(c) {
		return h.readMultipartDocument(c)
	}

	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.File == "" || (req.MimeType == "" && req.Filename == "") {
		return nil, inputError("Invalid input: file and mimeType are required")
	}
	return h.decodeDocument(req.File, req.Filename, req.MimeType)
}

func (h *PredictionHandler) decodeDocument(file, filename, mimeType string) (*uploadedDocument, error) {
	data, err := extract.DecodeBase64(file)
	if err != nil {
		return nil, inputError("Invalid input: file must be base64 encoded")
	}
	if h.limits.MaxUploadBytes > 0 && int64(len(data)) > h.limits.MaxUploadBytes {
		return nil, inputError(fmt.Sprintf("Invalid input: file exceeds %d bytes", h.limits.MaxUploadBytes))
	}

	return &uploadedDocument{
		Data:     data,
		Filename: filename,
		MimeType: extract.NormalizeMimeType(mimeType, filename),
	}, nil
}

func (h *PredictionHandler) readMultipartDocument(c *gin.Context) (*uploadedDocument, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, inputError("Invalid input: file is required")
	}

	if h.limits.MaxUploadBytes > 0 && header.Size > h.limits.MaxUploadBytes {
		return nil, inputError(fmt.Sprintf("Invalid input: file exceeds %d bytes", h.limits.MaxUploadBytes))
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	mimeType := c.PostForm("mimeType")
	if mimeType == "" {
		mimeType = header.Header.Get("Content-Type")
	}

	return &uploadedDocument{
		Data:     data,
		Filename: header.Filename,
		MimeType: extract.NormalizeMimeType(mimeType, header.Filename),
	}, nil
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}
