// Package flow implements the conversation driver: a sequential
// finite-state machine that selects a template, collects and normalizes
// answers, confirms them, and hands the accumulated answer set to the
// document filler. One inbound event is processed at a time per chat;
// the machine suspends between states until the next event arrives.
package flow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"docbot/internal/classify"
	cerrors "docbot/internal/common/errors"
	"docbot/internal/common/logger"
	"docbot/internal/common/metrics"
	"docbot/internal/docx"
	"docbot/internal/fields"
	"docbot/internal/filler"
	"docbot/internal/ingest"
	"docbot/internal/normalize"
	"docbot/internal/profile"
	"docbot/internal/session"
	"docbot/pkg/registry"
)

// Config holds the driver's file-system roots.
type Config struct {
	TemplateDir string
	OutputDir   string
}

// Driver sequences the questionnaire workflow.
type Driver struct {
	cfg      Config
	log      logger.Logger
	reg      *registry.Registry
	sessions *session.Store
	profiles profile.Store
	extract  ingest.Extractor
	msg      Messenger
}

func New(cfg Config, reg *registry.Registry, sessions *session.Store, profiles profile.Store, extract ingest.Extractor, msg Messenger, log logger.Logger) *Driver {
	return &Driver{
		cfg:      cfg,
		log:      log.WithFields(map[string]interface{}{"component": "flow"}),
		reg:      reg,
		sessions: sessions,
		profiles: profiles,
		extract:  extract,
		msg:      msg,
	}
}

// Handle processes one inbound event. Internal failures surface to the
// user as plain chat messages; the session always stays in a usable
// state. The returned error reports transport failures only.
func (d *Driver) Handle(ctx context.Context, ev Event) error {
	if ev.Command == "start" || strings.TrimSpace(ev.Text) == RestartButton {
		return d.restart(ctx, ev.ChatID)
	}

	s := d.sessions.Get(ev.ChatID)
	switch s.Stage {
	case session.StageSelecting:
		return d.handleSelecting(ctx, s, ev)
	case session.StageCacheChoice:
		return d.handleCacheChoice(ctx, s, ev)
	case session.StageCollecting:
		return d.handleCollecting(ctx, s, ev)
	case session.StageConfirming:
		return d.handleConfirming(ctx, s, ev)
	case session.StageBlockCollecting:
		return d.handleBlockCollecting(ctx, s, ev)
	case session.StageBlockConfirm:
		return d.handleBlockConfirm(ctx, s, ev)
	case session.StageBlockDate:
		return d.handleBlockDate(ctx, s, ev)
	default:
		return d.restart(ctx, ev.ChatID)
	}
}

func (d *Driver) restart(ctx context.Context, chatID int64) error {
	s := d.sessions.Get(chatID)
	if s.Stage != session.StageSelecting || s.TemplateID != "" {
		metrics.SessionRestarts.Inc()
	}
	s = d.sessions.Reset(chatID)
	metrics.SessionsStarted.Inc()
	d.log.Info("session started", map[string]interface{}{"chatId": chatID})
	return d.sendSelectPrompt(ctx, s, msgSelect)
}

func (d *Driver) sendSelectPrompt(ctx context.Context, s *session.Session, text string) error {
	keyboard := make([]string, 0, len(d.reg.Templates)+1)
	for _, t := range d.reg.Templates {
		keyboard = append(keyboard, t.DisplayName)
	}
	keyboard = append(keyboard, RestartButton)
	return d.msg.SendText(ctx, s.ChatID, text, keyboard)
}

func (d *Driver) handleSelecting(ctx context.Context, s *session.Session, ev Event) error {
	tpl, ok := d.reg.Match(ev.Text)
	if !ok {
		// Explicit unmatched branch: re-prompt, never default-route.
		return d.sendSelectPrompt(ctx, s, msgSelectRetry)
	}

	s.TemplateID = tpl.ID
	d.log.Info("template selected", map[string]interface{}{
		"chatId":     s.ChatID,
		"templateId": tpl.ID,
	})

	if tpl.Flow == registry.FlowBlock {
		s.Fields = questionLabels(tpl)
		s.Cursor = 0
		s.CurrentBlock = make(session.Block)
		s.Stage = session.StageBlockCollecting
		return d.askField(ctx, s, tpl)
	}

	labels, err := d.templateFields(tpl)
	if err != nil {
		d.log.WithError(err).Error("template unusable", map[string]interface{}{
			"templateId": tpl.ID,
		})
		s.TemplateID = ""
		return d.msg.SendText(ctx, s.ChatID, templateErrorMessage(tpl.DisplayName), nil)
	}
	s.Fields = labels
	s.Cursor = 0

	if prof := d.loadProfile(ctx, s); prof != nil {
		s.CachedProfile = prof
		s.Stage = session.StageCacheChoice
		return d.msg.SendText(ctx, s.ChatID, msgCacheOffer,
			[]string{btnCacheReuse, btnCacheReenter, RestartButton})
	}

	s.Stage = session.StageCollecting
	return d.askField(ctx, s, tpl)
}

// templateFields resolves the template's field list in question order:
// declared questions first (authorial order), then any extracted labels
// the registry does not declare.
func (d *Driver) templateFields(tpl *registry.Template) ([]string, error) {
	if tpl.Convention == registry.ConventionMarker {
		labels := questionLabels(tpl)
		if len(labels) == 0 {
			return nil, cerrors.NewTemplateNoFieldsError(tpl.File)
		}
		return labels, nil
	}

	doc, err := docx.Open(filepath.Join(d.cfg.TemplateDir, tpl.File))
	if err != nil {
		return nil, cerrors.NewTemplateReadFailedError(tpl.File, err)
	}
	extracted := fields.ExtractRed(doc)
	if len(extracted) == 0 {
		return nil, cerrors.NewTemplateNoFieldsError(tpl.File)
	}

	inTemplate := make(map[string]bool, len(extracted))
	for _, l := range extracted {
		inTemplate[l] = true
	}
	// Derived labels (commodity code) are filled by classification, not
	// asked as questions.
	derived := make(map[string]bool)
	for _, q := range tpl.Questions {
		if q.CodeLabel != "" {
			derived[q.CodeLabel] = true
		}
	}

	var labels []string
	for _, q := range tpl.Questions {
		if inTemplate[q.Label] {
			labels = append(labels, q.Label)
			inTemplate[q.Label] = false
		}
	}
	for _, l := range extracted {
		if inTemplate[l] && !derived[l] {
			labels = append(labels, l)
		}
	}
	return labels, nil
}

// loadProfile returns a cached answer set only when it covers every
// field of the current template; a partial profile cannot short-circuit
// to confirmation without leaving fields unanswered.
func (d *Driver) loadProfile(ctx context.Context, s *session.Session) map[string]string {
	prof, err := d.profiles.Load(ctx, s.ChatID)
	if err != nil {
		metrics.ProfileCacheErrors.WithLabelValues("load").Inc()
		d.log.WithError(cerrors.NewProfileReadFailedError(err)).Warn("profile load failed",
			map[string]interface{}{"chatId": s.ChatID})
		return nil
	}
	if len(prof) == 0 {
		metrics.ProfileCacheMisses.Inc()
		return nil
	}
	for _, label := range s.Fields {
		if prof[label] == "" {
			metrics.ProfileCacheMisses.Inc()
			return nil
		}
	}
	metrics.ProfileCacheHits.Inc()
	return prof
}

func (d *Driver) handleCacheChoice(ctx context.Context, s *session.Session, ev Event) error {
	switch strings.TrimSpace(ev.Text) {
	case btnCacheReuse:
		s.Answers = make(map[string]string, len(s.CachedProfile))
		for k, v := range s.CachedProfile {
			s.Answers[k] = v
		}
		s.Stage = session.StageConfirming
		return d.sendSummary(ctx, s)
	case btnCacheReenter:
		tpl, ok := d.reg.ByID(s.TemplateID)
		if !ok {
			return d.restart(ctx, s.ChatID)
		}
		s.Stage = session.StageCollecting
		s.Cursor = 0
		return d.askField(ctx, s, tpl)
	default:
		return d.msg.SendText(ctx, s.ChatID, msgCacheOffer,
			[]string{btnCacheReuse, btnCacheReenter, RestartButton})
	}
}

func (d *Driver) askField(ctx context.Context, s *session.Session, tpl *registry.Template) error {
	label := s.Fields[s.Cursor]
	prompt := genericPrompt(label)
	var keyboard []string

	if q, ok := tpl.QuestionFor(label); ok {
		prompt = q.Prompt
		if len(q.QuickPick) > 0 {
			keyboard = append(keyboard, q.QuickPick...)
		}
	}
	keyboard = append(keyboard, RestartButton)
	return d.msg.SendText(ctx, s.ChatID, prompt, keyboard)
}

// answerText resolves the event payload: uploaded files are routed
// through the ingest collaborator, plain text passes through.
func (d *Driver) answerText(ctx context.Context, ev Event) (string, bool) {
	if ev.FileError {
		// Transport already logged the failed download.
		return "", false
	}
	if len(ev.FileData) == 0 {
		return ev.Text, true
	}
	text, err := d.extract.Extract(ctx, ev.FileData, ev.FileKind)
	if err != nil {
		if errors.Is(err, ingest.ErrUnsupportedKind) {
			err = cerrors.NewIngestUnsupportedInputError(ev.FileKind)
		}
		d.log.WithError(err).Warn("upload ingestion failed", map[string]interface{}{
			"chatId": ev.ChatID,
			"kind":   ev.FileKind,
		})
		return "", false
	}
	return text, true
}

func (d *Driver) storeAnswer(s *session.Session, tpl *registry.Template, into map[string]string, raw string) {
	label := s.Fields[s.Cursor]
	kind := normalize.KindText
	q, declared := tpl.QuestionFor(label)
	if declared {
		kind = normalize.Kind(q.Kind)
	}

	res := normalize.Apply(raw, kind)
	if !res.Applied {
		d.log.Warn("answer stored without normalization", map[string]interface{}{
			"chatId": s.ChatID,
			"label":  label,
			"error":  cerrors.NewNormalizationDegradedError(label, raw).Error(),
		})
	}
	into[label] = res.Value

	// Fixed special case: the product-name answer also yields a derived
	// commodity code under its own label.
	if declared && q.Classify && q.CodeLabel != "" {
		into[q.CodeLabel] = classify.Detect(res.Value)
	}

	metrics.AnswersCollected.WithLabelValues(tpl.ID).Inc()
	s.Cursor++
}

func (d *Driver) handleCollecting(ctx context.Context, s *session.Session, ev Event) error {
	tpl, ok := d.reg.ByID(s.TemplateID)
	if !ok {
		return d.restart(ctx, s.ChatID)
	}

	raw, ok := d.answerText(ctx, ev)
	if !ok {
		return d.msg.SendText(ctx, s.ChatID, msgUploadFailed, nil)
	}

	d.storeAnswer(s, tpl, s.Answers, raw)
	if s.Cursor < len(s.Fields) {
		return d.askField(ctx, s, tpl)
	}

	s.Stage = session.StageConfirming
	return d.sendSummary(ctx, s)
}

func (d *Driver) sendSummary(ctx context.Context, s *session.Session) error {
	var b strings.Builder
	b.WriteString("Проверьте данные:\n")

	listed := make(map[string]bool, len(s.Answers))
	for _, label := range s.Fields {
		if v, ok := s.Answers[label]; ok {
			fmt.Fprintf(&b, "«%s»: %s\n", label, v)
			listed[label] = true
		}
	}
	// Derived values (commodity code) come after the asked fields.
	var rest []string
	for label := range s.Answers {
		if !listed[label] {
			rest = append(rest, label)
		}
	}
	sort.Strings(rest)
	for _, label := range rest {
		fmt.Fprintf(&b, "«%s»: %s\n", label, s.Answers[label])
	}

	b.WriteString("\n")
	b.WriteString(msgConfirmTail)
	return d.msg.SendText(ctx, s.ChatID, b.String(), []string{btnYes, btnNo, RestartButton})
}

func (d *Driver) handleConfirming(ctx context.Context, s *session.Session, ev Event) error {
	tpl, ok := d.reg.ByID(s.TemplateID)
	if !ok {
		return d.restart(ctx, s.ChatID)
	}

	switch strings.TrimSpace(ev.Text) {
	case btnYes:
		return d.complete(ctx, s, tpl)
	case btnNo:
		// Re-collect the current template, not a full session restart.
		s.ResetCollection()
		return d.askField(ctx, s, tpl)
	default:
		return d.msg.SendText(ctx, s.ChatID, msgYesNoExpected,
			[]string{btnYes, btnNo, RestartButton})
	}
}

func (d *Driver) handleBlockCollecting(ctx context.Context, s *session.Session, ev Event) error {
	tpl, ok := d.reg.ByID(s.TemplateID)
	if !ok {
		return d.restart(ctx, s.ChatID)
	}

	raw, ok := d.answerText(ctx, ev)
	if !ok {
		return d.msg.SendText(ctx, s.ChatID, msgUploadFailed, nil)
	}

	d.storeAnswer(s, tpl, s.CurrentBlock, raw)
	if s.Cursor < len(s.Fields) {
		return d.askField(ctx, s, tpl)
	}

	s.Blocks = append(s.Blocks, s.CurrentBlock)
	s.CurrentBlock = nil
	s.Stage = session.StageBlockConfirm
	return d.msg.SendText(ctx, s.ChatID, blockAddedMessage(len(s.Blocks)),
		[]string{btnBlockAdd, btnBlockFinish, RestartButton})
}

func (d *Driver) handleBlockConfirm(ctx context.Context, s *session.Session, ev Event) error {
	tpl, ok := d.reg.ByID(s.TemplateID)
	if !ok {
		return d.restart(ctx, s.ChatID)
	}

	switch strings.TrimSpace(ev.Text) {
	case btnBlockAdd:
		s.CurrentBlock = make(session.Block)
		s.Cursor = 0
		s.Stage = session.StageBlockCollecting
		return d.askField(ctx, s, tpl)
	case btnBlockFinish:
		s.Stage = session.StageBlockDate
		prompt := tpl.DatePrompt
		if prompt == "" {
			prompt = defaultDatePrompt
		}
		return d.msg.SendText(ctx, s.ChatID, prompt, []string{RestartButton})
	default:
		return d.msg.SendText(ctx, s.ChatID, msgBlockChoice,
			[]string{btnBlockAdd, btnBlockFinish, RestartButton})
	}
}

func (d *Driver) handleBlockDate(ctx context.Context, s *session.Session, ev Event) error {
	tpl, ok := d.reg.ByID(s.TemplateID)
	if !ok {
		return d.restart(ctx, s.ChatID)
	}

	res := normalize.Apply(ev.Text, normalize.KindDate)
	if !res.Applied {
		d.log.Warn("date stored without normalization", map[string]interface{}{
			"chatId": s.ChatID,
			"raw":    ev.Text,
		})
	}
	if tpl.DateLabel != "" {
		s.Answers[tpl.DateLabel] = res.Value
	}
	return d.complete(ctx, s, tpl)
}

// complete generates and delivers the document, persists the profile for
// linear flows, and loops the session back to template selection. Any
// generation failure turns into a user-visible message and leaves the
// session where it was, so the user can retry or restart.
func (d *Driver) complete(ctx context.Context, s *session.Session, tpl *registry.Template) error {
	start := time.Now()

	data, err := d.generate(s, tpl)
	if err != nil {
		code := string(cerrors.ErrCodeGenerationFailed)
		if se, ok := err.(*cerrors.StandardError); ok {
			code = string(se.Code)
		}
		metrics.GenerationFailures.WithLabelValues(tpl.ID, code).Inc()
		d.log.WithError(err).Error("generation failed", map[string]interface{}{
			"chatId":     s.ChatID,
			"templateId": tpl.ID,
		})
		return d.msg.SendText(ctx, s.ChatID, generationErrorMessage(tpl.DisplayName), nil)
	}

	if tpl.Flow == registry.FlowLinear {
		if err := d.profiles.Save(ctx, s.ChatID, s.Answers); err != nil {
			metrics.ProfileCacheErrors.WithLabelValues("save").Inc()
			d.log.WithError(cerrors.NewProfileWriteFailedError(err)).Warn("profile save failed",
				map[string]interface{}{"chatId": s.ChatID})
		}
	}

	// Audit copy; delivery does not depend on it.
	outPath := filepath.Join(d.cfg.OutputDir, uuid.NewString()+"_"+tpl.File)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		d.log.WithError(err).Warn("output copy not written", map[string]interface{}{
			"path": outPath,
		})
	}

	if err := d.msg.SendDocument(ctx, s.ChatID, tpl.File, data); err != nil {
		metrics.GenerationFailures.WithLabelValues(tpl.ID, string(cerrors.ErrCodeDeliveryFailed)).Inc()
		return cerrors.NewDeliveryFailedError(err)
	}

	metrics.DocumentsGenerated.WithLabelValues(tpl.ID).Inc()
	metrics.GenerationDuration.WithLabelValues(tpl.ID).Observe(time.Since(start).Seconds())
	d.log.Info("document delivered", map[string]interface{}{
		"chatId":     s.ChatID,
		"templateId": tpl.ID,
		"duration":   time.Since(start).String(),
	})

	s.Reset()
	return nil
}

func (d *Driver) generate(s *session.Session, tpl *registry.Template) ([]byte, error) {
	doc, err := docx.Open(filepath.Join(d.cfg.TemplateDir, tpl.File))
	if err != nil {
		return nil, cerrors.NewTemplateReadFailedError(tpl.File, err)
	}

	filler.Fill(doc, s.Answers, tpl.Convention)

	if tpl.Flow == registry.FlowBlock {
		if err := filler.InsertBlockTable(doc, tpl.BlockPlaceholder, d.blockRows(s)); err != nil {
			return nil, cerrors.NewGenerationFailedError(tpl.ID, err)
		}
	}

	data, err := doc.Bytes()
	if err != nil {
		return nil, cerrors.NewGenerationFailedError(tpl.ID, err)
	}
	return data, nil
}

// blockRows maps collected blocks onto table rows. Column order is the
// block question order: vehicle, documents, product.
func (d *Driver) blockRows(s *session.Session) []filler.BlockRow {
	rows := make([]filler.BlockRow, 0, len(s.Blocks))
	for _, b := range s.Blocks {
		var row filler.BlockRow
		if len(s.Fields) > 0 {
			row.Vehicle = b[s.Fields[0]]
		}
		if len(s.Fields) > 1 {
			row.Documents = b[s.Fields[1]]
		}
		if len(s.Fields) > 2 {
			row.Product = b[s.Fields[2]]
		}
		rows = append(rows, row)
	}
	return rows
}

func questionLabels(tpl *registry.Template) []string {
	labels := make([]string, 0, len(tpl.Questions))
	for _, q := range tpl.Questions {
		labels = append(labels, q.Label)
	}
	return labels
}
