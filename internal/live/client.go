package live

import "strings"

// ClientScript connects a page to the live endpoint. It reports pointer
// and viewport events for annotated elements and applies the ops the
// server sends back. The class placeholders are filled in by ScriptFor.
const ClientScript = `(function () {
  var trigger = "TRIGGER_CLASS";
  var closeClass = "CLOSE_CLASS";
  var page = location.pathname.replace(/^\//, "") || "index.html";
  var proto = location.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(proto + "//" + location.host + "/live?page=" + encodeURIComponent(page));
  var nodes = {};

  function node(ref) {
    return nodes[ref] || document.getElementById(ref);
  }

  function geometry(el) {
    return {
      offset_left: el.offsetLeft,
      width: el.offsetWidth,
      height: el.offsetHeight,
      font_size: parseFloat(getComputedStyle(el).fontSize) || 0,
      viewport_width: window.innerWidth,
      scrollbar_width: window.innerWidth - document.documentElement.clientWidth
    };
  }

  function send(type, el) {
    if (ws.readyState !== WebSocket.OPEN) return;
    var ev = { type: type };
    if (el) {
      ev.id = el.id;
      ev.geometry = geometry(el);
    }
    ws.send(JSON.stringify(ev));
  }

  function apply(op) {
    switch (op.op) {
    case "create":
      var el = document.createElement(op.tag);
      if (op.class) el.className = op.class;
      nodes[op.node] = el;
      break;
    case "attach":
      var parent = node(op.parent), child = node(op.node);
      if (parent && child) parent.appendChild(child);
      break;
    case "detach":
      var n = node(op.node);
      if (n && n.parentNode) n.parentNode.removeChild(n);
      delete nodes[op.node];
      break;
    case "attr":
      if (node(op.node)) node(op.node).setAttribute(op.key, op.value || "");
      break;
    case "rmattr":
      if (node(op.node)) node(op.node).removeAttribute(op.key);
      break;
    case "content":
      if (node(op.node)) node(op.node).innerHTML = op.value || "";
      break;
    case "open":
      window.open(op.url, op.target);
      break;
    }
  }

  ws.onmessage = function (e) {
    var msg = JSON.parse(e.data);
    if (msg.type === "ops" && msg.ops) msg.ops.forEach(apply);
    if (msg.type === "error" && window.console) console.warn("texotip:", msg.content);
  };

  document.querySelectorAll("." + trigger).forEach(function (el) {
    el.addEventListener("mouseenter", function () { send("enter", el); });
    el.addEventListener("mouseleave", function () { send("leave", el); });
    el.addEventListener("click", function (e) {
      if (e.target.classList && e.target.classList.contains(closeClass)) {
        e.preventDefault();
        e.stopPropagation();
        send("close", el);
        return;
      }
      e.preventDefault();
      send("activate", el);
    });
  });

  window.addEventListener("resize", function () { send("resize"); });
})();
`

// ScriptFor returns ClientScript bound to the trigger and close classes.
func ScriptFor(triggerClass, closeClass string) string {
	return strings.NewReplacer(
		"TRIGGER_CLASS", triggerClass,
		"CLOSE_CLASS", closeClass,
	).Replace(ClientScript)
}
