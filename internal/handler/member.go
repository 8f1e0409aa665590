package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cradoe/memberreg/internal/cache"
	"github.com/cradoe/memberreg/internal/context"
	"github.com/cradoe/memberreg/internal/errHandler"
	"github.com/cradoe/memberreg/internal/helper"
	"github.com/cradoe/memberreg/internal/metrics"
	"github.com/cradoe/memberreg/internal/models"
	"github.com/cradoe/memberreg/internal/repository"
	"github.com/cradoe/memberreg/internal/request"
	"github.com/cradoe/memberreg/internal/response"
	"github.com/cradoe/memberreg/internal/stream"
)

// activityPageSize is how many audit entries the activity endpoint returns
const activityPageSize = 50

// staleReadWindow covers the longest a repository read can run, see forget
var staleReadWindow = 3 * time.Second

type ChildResponseData struct {
	ID       int64       `json:"id"`
	FullName string      `json:"full_name"`
	Birthday models.Date `json:"birthday"`
}

type ParentResponseData struct {
	ID           int64       `json:"id"`
	FullName     string      `json:"full_name"`
	Birthday     models.Date `json:"birthday"`
	Relationship string      `json:"relationship"`
}

type MemberResponseData struct {
	ID             int64       `json:"id"`
	NationalID     string      `json:"national_id"`
	IDType         string      `json:"id_type"`
	FirstName      string      `json:"first_name"`
	MiddleName     string      `json:"middle_name"`
	LastName       string      `json:"last_name"`
	Gender         string      `json:"gender"`
	Birthday       models.Date `json:"birthday"`
	SpouseFullname string      `json:"spouse_fullname"`
	SpouseBirthday models.Date `json:"spouse_birthday"`
	Email          string      `json:"email"`
	Telephone      string      `json:"telephone"`
	Residence      string      `json:"residence"`
	Underlying     bool        `json:"underlying"`
	Condition      string      `json:"condition"`
	Declaration    bool        `json:"declaration"`
	DocumentURL    string      `json:"document_url"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// MemberDetailResponseData is a member with their dependants, returned by every
// single-member endpoint. Listings leave dependants out.
type MemberDetailResponseData struct {
	MemberResponseData
	Children []ChildResponseData  `json:"children"`
	Parents  []ParentResponseData `json:"parents"`
}

type ActivityResponseData struct {
	ID          int64     `json:"id"`
	ActorID     string    `json:"actor_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type MemberHandler struct {
	MemberRepo   repository.MemberRepository
	ActivityRepo repository.ActivityRepository
	Cache        cache.MemberCache
	Publisher    stream.Publisher
	Helper       *helper.HelperRepository
	ErrHandler   *errHandler.ErrorHandler
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
}

func NewMemberHandler(handler *MemberHandler) *MemberHandler {
	return &MemberHandler{
		MemberRepo:   handler.MemberRepo,
		ActivityRepo: handler.ActivityRepo,
		Cache:        handler.Cache,
		Publisher:    handler.Publisher,
		Helper:       handler.Helper,
		ErrHandler:   handler.ErrHandler,
		Metrics:      handler.Metrics,
		Logger:       handler.Logger,
	}
}

func (h *MemberHandler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	query := retrieveUrlQueryValues(r)

	members, total, err := h.MemberRepo.GetAll(models.MemberFilter{
		Search: query.Search,
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	list := make([]MemberResponseData, len(members))
	for i := range members {
		list[i] = toMemberResponse(&members[i])
	}

	data := map[string]any{
		"members": list,
		"total":   total,
		"page":    query.Page,
		"limit":   query.Limit,
	}

	headers := make(http.Header)
	headers.Set("X-Total-Count", strconv.Itoa(total))

	message := "Members retrieved successfully"
	err = response.JSONOkResponse(w, data, message, headers)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *MemberHandler) HandleGetMember(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	member, found, err := h.loadMember(id)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found {
		h.ErrHandler.NotFound(w, r)
		return
	}

	message := "Member retrieved successfully"
	err = response.JSONOkResponse(w, toMemberDetailResponse(member), message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// Registration is public: members sign themselves up with their dependants.
// The confirmation email and the audit entry are produced by workers listening
// on the member.registered topic.
func (h *MemberHandler) HandleRegisterMember(w http.ResponseWriter, r *http.Request) {
	var input memberInput

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.normalize()
	input.validate()

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	// we want to make sure no two members share a national id
	exists, err := h.MemberRepo.CheckIfNationalIDExist(input.NationalID, 0)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if exists {
		h.ErrHandler.Conflict(w, r, repository.ErrDuplicateNationalID)
		return
	}

	// registration never carries stored dependants
	person := input.toPerson()
	for i := range person.Children {
		person.Children[i].ID = 0
	}
	for i := range person.Parents {
		person.Parents[i].ID = 0
	}

	created, err := h.MemberRepo.Insert(person)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateNationalID) {
			h.ErrHandler.Conflict(w, r, repository.ErrDuplicateNationalID)
			return
		}
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Metrics.IncrementMembersRegistered()

	event := stream.NewMemberEvent(created, actorID(r))
	h.Helper.BackgroundTask(r, func() error {
		return stream.Publish(h.Publisher, stream.MemberRegisteredTopic, event)
	})

	message := "Member registered successfully"
	err = response.JSONCreatedResponse(w, toMemberDetailResponse(created), message)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleUpdateMember overwrites the member and reconciles their children and
// parents with the submitted lists in one transaction.
func (h *MemberHandler) HandleUpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	var input memberInput

	err = request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.normalize()
	input.validate()

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	result, found, err := h.MemberRepo.Update(id, input.toPerson())
	switch {
	case errors.Is(err, repository.ErrUnknownDependant):
		h.ErrHandler.FailedValidation(w, r, []string{err.Error()})
		return
	case errors.Is(err, repository.ErrDuplicateNationalID):
		h.ErrHandler.Conflict(w, r, repository.ErrDuplicateNationalID)
		return
	case err != nil:
		h.ErrHandler.ServerError(w, r, err)
		return
	case !found:
		h.ErrHandler.NotFound(w, r)
		return
	}

	h.Metrics.IncrementMembersUpdated()
	h.recordDependantChanges("child", result.Children)
	h.recordDependantChanges("parent", result.Parents)

	h.forget(r, id)

	event := stream.NewMemberEvent(result.Member, actorID(r))
	event.Children = result.Children
	event.Parents = result.Parents
	h.Helper.BackgroundTask(r, func() error {
		return stream.Publish(h.Publisher, stream.MemberUpdatedTopic, event)
	})

	message := "Member updated successfully"
	err = response.JSONOkResponse(w, toMemberDetailResponse(result.Member), message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleDeleteMember removes the member; their children and parents go with them.
func (h *MemberHandler) HandleDeleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	deleted, err := h.MemberRepo.Delete(id)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !deleted {
		h.ErrHandler.NotFound(w, r)
		return
	}

	h.Metrics.IncrementMembersDeleted()

	h.forget(r, id)

	event := &stream.MemberEvent{MemberID: id, ActorID: actorID(r), OccurredAt: time.Now().UTC()}
	h.Helper.BackgroundTask(r, func() error {
		return stream.Publish(h.Publisher, stream.MemberDeletedTopic, event)
	})

	response.NoContent(w)
}

func (h *MemberHandler) HandleMemberActivity(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	_, found, err := h.loadMember(id)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found {
		h.ErrHandler.NotFound(w, r)
		return
	}

	logs, err := h.ActivityRepo.GetByEntity(repository.ActivityLogMemberEntity, strconv.FormatInt(id, 10), activityPageSize)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := make([]ActivityResponseData, len(logs))
	for i, log := range logs {
		data[i] = ActivityResponseData{
			ID:          log.ID,
			ActorID:     log.ActorID,
			Description: log.Description,
			CreatedAt:   log.CreatedAt,
		}
	}

	message := "Member activity retrieved successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// loadMember reads through the cache. Cache failures are logged and the
// database answers instead.
func (h *MemberHandler) loadMember(id int64) (*models.Person, bool, error) {
	member, found, err := h.Cache.GetMember(id)
	if err != nil {
		h.Logger.Warn("member cache read failed", "member_id", id, "error", err)
	}
	if err == nil && found {
		return member, true, nil
	}

	member, found, err = h.MemberRepo.GetOne(id)
	if err != nil || !found {
		return nil, found, err
	}

	if err := h.Cache.SetMember(member); err != nil {
		h.Logger.Warn("member cache write failed", "member_id", id, "error", err)
	}

	return member, true, nil
}

// forget drops the cached copy of a member after it changed. It runs before the
// response is written so the next read after a successful write misses the cache.
// A read that loaded the old row before the commit may still write it back, so the
// key is dropped a second time once such a read has finished.
func (h *MemberHandler) forget(r *http.Request, id int64) {
	h.evict(id)

	h.Helper.BackgroundTask(r, func() error {
		time.Sleep(staleReadWindow)
		h.evict(id)
		return nil
	})
}

func (h *MemberHandler) evict(id int64) {
	if err := h.Cache.DeleteMember(id); err != nil {
		h.Logger.Warn("member cache invalidation failed", "member_id", id, "error", err)
	}
}

func (h *MemberHandler) recordDependantChanges(kind string, changes models.DependantChanges) {
	h.Metrics.AddDependants(kind, "created", changes.Created)
	h.Metrics.AddDependants(kind, "updated", changes.Updated)
	h.Metrics.AddDependants(kind, "deleted", changes.Deleted)
}

// actorID is the signed-in admin's id, empty on public routes.
func actorID(r *http.Request) string {
	admin := context.ContextGetAuthenticatedAdmin(r)
	if admin == nil {
		return ""
	}
	return strconv.FormatInt(admin.ID, 10)
}

func toMemberResponse(p *models.Person) MemberResponseData {
	return MemberResponseData{
		ID:             p.ID,
		NationalID:     p.NationalID,
		IDType:         p.IDType,
		FirstName:      p.FirstName,
		MiddleName:     p.MiddleName,
		LastName:       p.LastName,
		Gender:         p.Gender,
		Birthday:       p.Birthday,
		SpouseFullname: p.SpouseFullname,
		SpouseBirthday: p.SpouseBirthday,
		Email:          p.Email,
		Telephone:      p.Telephone,
		Residence:      p.Residence,
		Underlying:     p.Underlying,
		Condition:      p.Condition,
		Declaration:    p.Declaration,
		DocumentURL:    p.DocumentURL,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toMemberDetailResponse(p *models.Person) *MemberDetailResponseData {
	data := &MemberDetailResponseData{
		MemberResponseData: toMemberResponse(p),
		Children:           make([]ChildResponseData, len(p.Children)),
		Parents:            make([]ParentResponseData, len(p.Parents)),
	}

	for i, child := range p.Children {
		data.Children[i] = ChildResponseData{
			ID:       child.ID,
			FullName: child.FullName,
			Birthday: child.Birthday,
		}
	}

	for i, parent := range p.Parents {
		data.Parents[i] = ParentResponseData{
			ID:           parent.ID,
			FullName:     parent.FullName,
			Birthday:     parent.Birthday,
			Relationship: parent.Relationship,
		}
	}

	return data
}
