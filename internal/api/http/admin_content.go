package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/examstack/examstack/internal/content"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type majorRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"max=1000"`
	Active      bool   `json:"is_active"`
}

type materialRequest struct {
	MajorID     int64  `json:"major_id" validate:"required,gt=0"`
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"max=1000"`
	Active      bool   `json:"is_active"`
}

type chapterRequest struct {
	MaterialID int64  `json:"material_id" validate:"required,gt=0"`
	Title      string `json:"title" validate:"required,min=2,max=200"`
	Number     int    `json:"chapter_number" validate:"gte=0"`
	Active     bool   `json:"is_active"`
}

type questionRequest struct {
	ChapterID   int64  `json:"chapter_id" validate:"required,gt=0"`
	Text        string `json:"question_text" validate:"required,min=3"`
	ChoiceA     string `json:"choice_a" validate:"required"`
	ChoiceB     string `json:"choice_b" validate:"required"`
	ChoiceC     string `json:"choice_c" validate:"required"`
	Correct     string `json:"correct_answer" validate:"required,oneof=A B C"`
	Explanation string `json:"explanation"`
	Active      bool   `json:"is_active"`
}

func decodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

func listOpts(r *http.Request) content.ListOpts {
	q := r.URL.Query()
	majorID, _ := parseID(q.Get("major_id"))
	materialID, _ := parseID(q.Get("material_id"))
	chapterID, _ := parseID(q.Get("chapter_id"))
	return content.ListOpts{
		Q:          q.Get("search"),
		Limit:      parseIntDefault(q.Get("limit"), 20),
		Offset:     parseIntDefault(q.Get("offset"), 0),
		MajorID:    majorID,
		MaterialID: materialID,
		ChapterID:  chapterID,
	}
}

func crudError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, content.ErrNotFound):
		http.Error(w, "not found", 404)
	case errors.Is(err, content.ErrInvalidChoice):
		http.Error(w, err.Error(), 400)
	default:
		http.Error(w, err.Error(), 500)
	}
}

/* ---------- majors ---------- */

func AdminListMajorsHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := repo.ListMajors(r.Context(), listOpts(r))
		if err != nil {
			crudError(w, err)
			return
		}
		writeJSON(w, 200, out)
	}
}

func AdminGetMajorHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "bad id", 400)
			return
		}
		out, err := repo.GetMajor(r.Context(), id)
		if err != nil {
			crudError(w, err)
			return
		}
		writeJSON(w, 200, out)
	}
}

func AdminCreateMajorHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req majorRequest
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		id, err := repo.CreateMajor(r.Context(), content.Major{
			Name: req.Name, Description: req.Description, Active: req.Active,
		})
		if err != nil {
			crudError(w, err)
			return
		}
		writeJSON(w, 201, map[string]int64{"id": id})
	}
}

func AdminUpdateMajorHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "bad id", 400)
			return
		}
		var req majorRequest
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		err := repo.UpdateMajor(r.Context(), content.Major{
			ID: id, Name: req.Name, Description: req.Description, Active: req.Active,
		})
		if err != nil {
			crudError(w, err)
			return
		}
		w.WriteHeader(204)
	}
}

func AdminDeleteMajorHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "bad id", 400)
			return
		}
		if err := repo.DeleteMajor(r.Context(), id); err != nil {
			crudError(w, err)
			return
		}
		w.WriteHeader(204)
	}
}

/* ---------- materials ---------- */

func AdminListMaterialsHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := repo.ListMaterials(r.Context(), listOpts(r))
		if err != nil {
			crudError(w, err)
			return
		}
		writeJSON(w, 200, out)
	}
}

func AdminGetMaterialHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "bad id", 400)
			return
		}
		out, err := repo.GetMaterial(r.Context(), id)
		if err != nil {
			crudError(w, err)
			return
		}
		writeJSON(w, 200, out)
	}
}

func AdminCreateMaterialHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req materialRequest
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		id, err := repo.CreateMaterial(r.Context(), content.Material{
			MajorID: req.MajorID, Name: req.Name, Description: req.Description, Active: req.Active,
		})
		if err != nil {
			crudError(w, err)
			return
		}
		writeJSON(w, 201, map[string]int64{"id": id})
	}
}

func AdminUpdateMaterialHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "bad id", 400)
			return
		}
		var req materialRequest
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		err := repo.UpdateMaterial(r.Context(), content.Material{
			ID: id, MajorID: req.MajorID, Name: req.Name, Description: req.Description, Active: req.Active,
		})
		if err != nil {
			crudError(w, err)
			return
		}
		w.WriteHeader(204)
	}
}

func AdminDeleteMaterialHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "bad id", 400)
			return
		}
		if err := repo.DeleteMaterial(r.Context(), id); err != nil {
			crudError(w, err)
			return
		}
		w.WriteHeader(204)
	}
}

/* ---------- chapters ---------- */

func AdminListChaptersHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := repo.ListChapters(r.Context(), listOpts(r))
		if err != nil {
			crudError(w, err)
			return
		}
		writeJSON(w, 200, out)
	}
}

func AdminGetChapterHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "bad id", 400)
			return
		}
		out, err := repo.GetChapter(r.Context(), id)
		if err != nil {
			crudError(w, err)
			return
		}
		writeJSON(w, 200, out)
	}
}

func AdminCreateChapterHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chapterRequest
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		id, err := repo.CreateChapter(r.Context(), content.Chapter{
			MaterialID: req.MaterialID, Title: req.Title, Number: req.Number, Active: req.Active,
		})
		if err != nil {
			crudError(w, err)
			return
		}
		writeJSON(w, 201, map[string]int64{"id": id})
	}
}

func AdminUpdateChapterHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "bad id", 400)
			return
		}
		var req chapterRequest
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		err := repo.UpdateChapter(r.Context(), content.Chapter{
			ID: id, MaterialID: req.MaterialID, Title: req.Title, Number: req.Number, Active: req.Active,
		})
		if err != nil {
			crudError(w, err)
			return
		}
		w.WriteHeader(204)
	}
}

func AdminDeleteChapterHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "bad id", 400)
			return
		}
		if err := repo.DeleteChapter(r.Context(), id); err != nil {
			crudError(w, err)
			return
		}
		w.WriteHeader(204)
	}
}

/* ---------- questions ---------- */

func AdminListQuestionsHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := repo.ListQuestions(r.Context(), listOpts(r))
		if err != nil {
			crudError(w, err)
			return
		}
		writeJSON(w, 200, out)
	}
}

func AdminGetQuestionHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "bad id", 400)
			return
		}
		out, err := repo.GetQuestion(r.Context(), id)
		if err != nil {
			crudError(w, err)
			return
		}
		writeJSON(w, 200, out)
	}
}

func AdminCreateQuestionHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req questionRequest
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		id, err := repo.CreateQuestion(r.Context(), content.Question{
			ChapterID: req.ChapterID, Text: req.Text,
			ChoiceA: req.ChoiceA, ChoiceB: req.ChoiceB, ChoiceC: req.ChoiceC,
			Correct: req.Correct, Explanation: req.Explanation, Active: req.Active,
		})
		if err != nil {
			crudError(w, err)
			return
		}
		writeJSON(w, 201, map[string]int64{"id": id})
	}
}

func AdminUpdateQuestionHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "bad id", 400)
			return
		}
		var req questionRequest
		if err := decodeValid(r, &req); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		err := repo.UpdateQuestion(r.Context(), content.Question{
			ID: id, ChapterID: req.ChapterID, Text: req.Text,
			ChoiceA: req.ChoiceA, ChoiceB: req.ChoiceB, ChoiceC: req.ChoiceC,
			Correct: req.Correct, Explanation: req.Explanation, Active: req.Active,
		})
		if err != nil {
			crudError(w, err)
			return
		}
		w.WriteHeader(204)
	}
}

func AdminDeleteQuestionHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, "bad id", 400)
			return
		}
		if err := repo.DeleteQuestion(r.Context(), id); err != nil {
			crudError(w, err)
			return
		}
		w.WriteHeader(204)
	}
}
