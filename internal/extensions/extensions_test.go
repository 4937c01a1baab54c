package extensions

import (
	"context"
	"testing"
	"time"

	"github.com/atomicstack/termext/internal/cache"
	"github.com/atomicstack/termext/internal/ext"
	"github.com/stretchr/testify/require"
)

func TestBuiltinsRegister(t *testing.T) {
	reg := ext.NewRegistry()
	require.NoError(t, Register(reg))
	ids := reg.IDs()
	require.Contains(t, ids, "fruits/browse")
	require.Contains(t, ids, "todo/list")
	require.Contains(t, ids, "pkgs/search")
	for _, e := range reg.Extensions() {
		for _, c := range e.Commands {
			require.True(t, c.View != nil || c.Run != nil, "%s has neither view nor handler", c.ID())
		}
	}
}

func intentKinds(ctx *ext.Context) []ext.IntentKind {
	var kinds []ext.IntentKind
	for _, in := range ctx.Intents() {
		kinds = append(kinds, in.Kind)
	}
	return kinds
}

func loadTodos(t *testing.T, list *ext.List) []ext.Section {
	t.Helper()
	sections, err := list.Load(context.Background(), "")
	require.NoError(t, err)
	return sections
}

func TestTodoAddDeleteUndo(t *testing.T) {
	store := cache.NewMemory()
	view, err := todoView(ext.NewContext("f1", "todo/list", nil, "", store))
	require.NoError(t, err)
	list := view.(*ext.List)

	empty := ext.NewContext("f1", "todo/list", nil, "  ", store)
	require.Error(t, list.Actions[0].Run(empty))

	add := ext.NewContext("f1", "todo/list", nil, "buy milk", store)
	require.NoError(t, list.Actions[0].Run(add))
	require.Equal(t, []ext.IntentKind{ext.IntentSearchText, ext.IntentHUD, ext.IntentRefresh}, intentKinds(add))

	sections := loadTodos(t, list)
	require.Len(t, sections[0].Items, 1)
	milk := sections[0].Items[0]
	require.Equal(t, "buy milk", milk.Title)

	done := ext.NewContext("f1", "todo/list", &milk, "", store)
	require.NoError(t, milk.Actions[0].Run(done))
	sections = loadTodos(t, list)
	require.Empty(t, sections[0].Items)
	require.Len(t, sections[1].Items, 1)
	require.Equal(t, "Reopen", sections[1].Items[0].Actions[0].Title)

	milk = sections[1].Items[0]
	del := ext.NewContext("f1", "todo/list", &milk, "", store)
	require.NoError(t, milk.Actions[1].Run(del))
	require.Empty(t, loadTodos(t, list)[1].Items)

	toast := del.Intents()[0]
	require.Equal(t, ext.IntentToast, toast.Kind)
	require.NotNil(t, toast.Toast.Primary)
	undo := ext.NewContext("f1", "todo/list", nil, "", store)
	require.NoError(t, toast.Toast.Primary.Run(undo))
	require.Len(t, loadTodos(t, list)[1].Items, 1)
}

func TestTodoToggleDoesNotMutateItem(t *testing.T) {
	store := cache.NewMemory()
	s := todoStore{store: store}
	cup, err := s.add("tea")
	require.NoError(t, err)

	item := todoItem(s, cup)
	for i := 0; i < 2; i++ {
		ctx := ext.NewContext("f1", "todo/list", &item, "", store)
		require.NoError(t, item.Actions[0].Run(ctx))
	}
	all, err := s.list()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.True(t, all[0].done, "repeating a stale toggle marks done both times")
}

func TestTodoClearCompletedAsksFirst(t *testing.T) {
	store := cache.NewMemory()
	s := todoStore{store: store}
	a, err := s.add("a")
	require.NoError(t, err)
	a.done = true
	require.NoError(t, s.put(a))
	_, err = s.add("b")
	require.NoError(t, err)

	ctx := ext.NewContext("f1", "todo/list", nil, "", store)
	require.NoError(t, clearDoneAction(s).Run(ctx))
	all, err := s.list()
	require.NoError(t, err)
	require.Len(t, all, 2, "nothing is removed before confirmation")

	alert := ctx.Intents()[0]
	require.Equal(t, ext.IntentAlert, alert.Kind)
	require.True(t, alert.Alert.Destructive)
	confirm := ext.NewContext("f1", "todo/list", nil, "", store)
	require.NoError(t, alert.Alert.OnConfirm(confirm))
	all, err = s.list()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "b", all[0].title)
}

func TestPackageSearchIsControlled(t *testing.T) {
	view, err := packageView(nil)
	require.NoError(t, err)
	list := view.(*ext.List)
	require.True(t, list.Controlled)
	require.True(t, list.FilteringDisabled)

	ctx := ext.NewContext("f1", "pkgs/search", nil, "", nil)
	list.OnSearchTextChange(ctx, "Co bra")
	intents := ctx.Intents()
	require.Len(t, intents, 1)
	require.Equal(t, "cobra", intents[0].Text)

	sections, err := list.Load(context.Background(), "cobra")
	require.NoError(t, err)
	require.Len(t, sections[0].Items, 1)
	require.Equal(t, "★ 39,800", sections[0].Items[0].Accessories[0].Value)
	require.Len(t, searchPackages("")[0].Items, len(packageIndex))
}

func TestGroceryAisleFilter(t *testing.T) {
	now := time.Now()
	all := grocerySections("", now)
	require.Len(t, all, len(aisles))
	dairy := grocerySections("Dairy", now)
	require.Len(t, dairy, 1)
	require.Len(t, dairy[0].Items, 2)
	require.Equal(t, "30 minutes ago", dairy[0].Items[0].Accessories[0].Label(now))
}

func TestClockAlwaysHasUTC(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	items := clockSections(now)[0].Items
	require.NotEmpty(t, items)
	require.Equal(t, "UTC", items[0].ID)
	require.Equal(t, "12:30:00", items[0].Accessories[0].Value)
}

func TestProfileValidatesEmail(t *testing.T) {
	store := cache.NewMemory()
	view, err := profileView(ext.NewContext("f1", "settings/profile", nil, "", store))
	require.NoError(t, err)
	form := view.(*ext.Form)

	bad := ext.NewContext("f1", "settings/profile", nil, "", store)
	bad.FormValues = map[string]string{"name": "Ada", "email": "nope"}
	require.Error(t, form.OnSubmit(bad))

	good := ext.NewContext("f1", "settings/profile", nil, "", store)
	good.FormValues = map[string]string{"name": "Ada", "email": "ada@example.com", "notify": "false"}
	require.NoError(t, form.OnSubmit(good))

	again, err := profileView(ext.NewContext("f1", "settings/profile", nil, "", store))
	require.NoError(t, err)
	require.Equal(t, "Ada", again.(*ext.Form).Fields[0].Default)
}
