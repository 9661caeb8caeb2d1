package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iilei/jsonease/pkg/convert"
	"github.com/iilei/jsonease/pkg/generate"
	"github.com/iilei/jsonease/pkg/jsonease"
	"github.com/iilei/jsonease/pkg/jsonvalue"
	"github.com/iilei/jsonease/pkg/tree"
)

// textRequest is the body accepted by the text endpoints.
type textRequest struct {
	Text string `json:"text"`
	// Indent overrides the server setting ("1".."10" or "tab").
	Indent string `json:"indent" validate:"omitempty,indent"`
	// AutoRepair overrides the server setting.
	AutoRepair *bool `json:"autoRepair"`
	// Schema is an optional JSON Schema for /validate.
	Schema        string `json:"schema"`
	SchemaVersion string `json:"schemaVersion" validate:"omitempty,oneof=draft-04 draft-06 draft-07 draft/2019-09 draft/2020-12"`
	ErrorTemplate string `json:"errorTemplate"`
	// Depth limits expanded branches for /tree; negative or absent expands all.
	Depth *int `json:"depth"`
	// From names the grammar of Text. Anything but json (the default) is
	// converted to JSON before the endpoint runs.
	From string `json:"from" validate:"omitempty,oneof=auto json json5 yaml toml"`
}

type generateRequest struct {
	Fields []generate.Field `json:"fields"`
	Count  int              `json:"count" validate:"gte=0,lte=1000"`
	Seed   *int64           `json:"seed"`
	Indent string           `json:"indent" validate:"omitempty,indent"`
}

type response struct {
	Output      string          `json:"output"`
	Valid       *bool           `json:"valid,omitempty"`
	Steps       []jsonease.Step `json:"steps,omitempty"`
	Parser      string          `json:"parser,omitempty"`
	Tree        []*tree.Node    `json:"tree,omitempty"`
	ContentType string          `json:"contentType,omitempty"`
	Diagnosis   *diagnosisBody  `json:"diagnosis,omitempty"`
}

// diagnosisBody adds the rendered text and the zero-based editor cursor to a
// diagnosis.
type diagnosisBody struct {
	*jsonease.Diagnosis
	Text   string  `json:"text"`
	Cursor *cursor `json:"cursor,omitempty"`
}

type cursor struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newDiagnosisBody(d *jsonease.Diagnosis) *diagnosisBody {
	body := &diagnosisBody{Diagnosis: d, Text: d.Error()}
	if line, col, ok := d.Cursor(); ok {
		body.Cursor = &cursor{Line: line, Column: col}
	}
	return body
}

// decodeText decodes a textRequest and converts its text to JSON when From
// names another grammar. Text the grammar rejects is answered with 422.
func (s *Server) decodeText(w http.ResponseWriter, r *http.Request, req *textRequest) bool {
	if !s.decode(w, r, req) {
		return false
	}
	ft := jsonvalue.FileType(req.From)
	if ft == "" || ft == jsonvalue.FileTypeJSON {
		return true
	}
	v, err := jsonvalue.ParseData([]byte(req.Text), ft)
	if err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return false
	}
	req.Text = jsonvalue.Marshal(v, s.cfg.IndentPolicy())
	return true
}

// service returns the core service with the request's overrides applied.
func (s *Server) service(req *textRequest) *jsonease.Service {
	indent := s.cfg.IndentPolicy()
	if req.Indent != "" {
		indent, _ = jsonvalue.ParseIndent(req.Indent)
	}
	autoRepair := s.cfg.AutoRepair
	if req.AutoRepair != nil {
		autoRepair = *req.AutoRepair
	}
	return jsonease.NewService(indent, autoRepair)
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !s.decodeText(w, r, &req) {
		return
	}
	out, err := s.service(&req).Format(req.Text)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, response{Output: out})
}

func (s *Server) handleMinify(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !s.decodeText(w, r, &req) {
		return
	}
	out, err := s.service(&req).Minify(req.Text)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, response{Output: out})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !s.decodeText(w, r, &req) {
		return
	}

	var err error
	if req.Schema != "" {
		err = jsonease.ValidateSchema(req.Text, req.Schema, jsonease.SchemaOptions{
			Version:  s.cfg.GetEffectiveSchemaVersion(req.SchemaVersion),
			Template: s.cfg.GetEffectiveErrorTemplate(req.ErrorTemplate),
		})
	} else {
		err = s.service(&req).Validate(req.Text)
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	ok := true
	s.writeJSON(w, http.StatusOK, response{Valid: &ok})
}

func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !s.decodeText(w, r, &req) {
		return
	}
	res, err := s.service(&req).Repair(req.Text)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, response{Output: res.Text, Steps: res.Steps, Parser: string(res.Parser)})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !s.decodeText(w, r, &req) {
		return
	}
	v, err := jsonease.Parse(req.Text)
	if err != nil {
		s.fail(w, err)
		return
	}
	nodes := tree.Build(v)
	if req.Depth != nil {
		tree.ExpandTo(nodes, *req.Depth)
	}
	s.writeJSON(w, http.StatusOK, response{Output: tree.Render(nodes), Tree: nodes})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	f, err := convert.ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	var req textRequest
	if !s.decodeText(w, r, &req) {
		return
	}
	out, err := s.convert.ConvertText(req.Text, f)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, response{Output: out, ContentType: f.ContentType()})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !s.decode(w, r, &req) {
		return
	}
	for i, f := range req.Fields {
		if f.Type == "" {
			req.Fields[i].Type = generate.TypeString
			continue
		}
		t, err := generate.ParseFieldType(string(f.Type))
		if err != nil {
			s.badRequest(w, err.Error())
			return
		}
		req.Fields[i].Type = t
	}

	g := generate.New(nil)
	if req.Seed != nil {
		g = generate.NewSeeded(*req.Seed)
	}
	v, err := g.Generate(req.Fields, req.Count)
	if err != nil {
		s.fail(w, err)
		return
	}

	indent := s.cfg.IndentPolicy()
	if req.Indent != "" {
		indent, _ = jsonvalue.ParseIndent(req.Indent)
	}
	s.writeJSON(w, http.StatusOK, response{Output: jsonvalue.Marshal(v, indent)})
}

func (s *Server) handleSettings(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.cfg)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
