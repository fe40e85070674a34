package browser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/hired-always/internal/form"
)

// annotateScript numbers every control the same way the collector does and
// records what only a live page knows: rendered box, computed style, current
// value and checked state.
var annotateScript = fmt.Sprintf(`(() => {
  const els = document.querySelectorAll('input, textarea, select');
  let next = 0;
  els.forEach(el => {
    const n = parseInt(el.getAttribute(%[1]q), 10);
    if (!isNaN(n) && n >= next) next = n + 1;
  });
  els.forEach(el => {
    if (!el.hasAttribute(%[1]q)) el.setAttribute(%[1]q, String(next++));
    const rect = el.getBoundingClientRect();
    const style = getComputedStyle(el);
    const shown = rect.width > 0 && rect.height > 0 &&
      style.display !== 'none' && style.visibility !== 'hidden' && style.visibility !== 'collapse';
    el.setAttribute(%[2]q, shown ? '1' : '0');
    if (el.tagName === 'SELECT') {
      Array.from(el.options).forEach(o => o.selected ? o.setAttribute('selected', 'selected') : o.removeAttribute('selected'));
    } else {
      el.setAttribute(%[3]q, el.value || '');
    }
    if (el.type === 'checkbox' || el.type === 'radio') el.setAttribute(%[4]q, el.checked ? '1' : '0');
  });
  return els.length;
})()`, form.AttrRef, form.AttrVisible, form.AttrValue, form.AttrChecked)

const notFound = "control not found"

// setValueFunc writes through the prototype setter so instance-level overrides
// installed by front-end frameworks still see the change.
var setValueFunc = fmt.Sprintf(`(sel, value) => {
  const el = document.querySelector(sel);
  if (!el) throw new Error(%[1]q + ': ' + sel);
  const proto = el instanceof HTMLTextAreaElement ? HTMLTextAreaElement.prototype
    : el instanceof HTMLSelectElement ? HTMLSelectElement.prototype
    : HTMLInputElement.prototype;
  Object.getOwnPropertyDescriptor(proto, 'value').set.call(el, value);
  if (el.hasAttribute(%[2]q)) el.setAttribute(%[2]q, value);
  return true;
}`, notFound, form.AttrValue)

var clickFunc = fmt.Sprintf(`(sel) => {
  const el = document.querySelector(sel);
  if (!el) throw new Error(%[1]q + ': ' + sel);
  el.click();
  return true;
}`, notFound)

var dispatchFunc = fmt.Sprintf(`(sel, type) => {
  const el = document.querySelector(sel);
  if (!el) throw new Error(%[1]q + ': ' + sel);
  el.dispatchEvent(new Event(type, { bubbles: true }));
  return true;
}`, notFound)

// call renders an invocation of fn with JSON-encoded arguments.
func call(fn string, args ...string) string {
	encoded := make([]string, len(args))
	for i, a := range args {
		b, _ := json.Marshal(a)
		encoded[i] = string(b)
	}
	return "(" + fn + ")(" + strings.Join(encoded, ", ") + ")"
}
