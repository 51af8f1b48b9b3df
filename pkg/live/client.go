package live

// clientScript connects to the hub, renders snapshots into #vbind-root and
// applies patch frames by node ID. InsertNode carries markup without IDs,
// so the client reconnects to fetch a fresh snapshot.
const clientScript = `
(function() {
    'use strict';

    var root = document.getElementById('vbind-root');
    var nodes = {};
    var decoder = new TextDecoder();
    var reconnectDelay = 500;

    function reader(buf) {
        var pos = 0;
        return {
            byte: function() { return buf[pos++]; },
            uvarint: function() {
                var v = 0, mul = 1, b;
                do {
                    b = buf[pos++];
                    v += (b & 0x7f) * mul;
                    mul *= 128;
                } while (b >= 0x80);
                return v;
            },
            string: function() {
                var n = this.uvarint();
                var s = decoder.decode(buf.subarray(pos, pos + n));
                pos += n;
                return s;
            }
        };
    }

    function snapshot(r) {
        r.uvarint();
        root.innerHTML = r.string();
        var count = r.uvarint();
        var ids = [];
        for (var i = 0; i < count; i++) ids.push(r.uvarint());
        nodes = {};
        var i = 0;
        (function walk(n) {
            for (var c = n.firstChild; c; c = c.nextSibling) {
                if (c.nodeType !== 1 && c.nodeType !== 3) continue;
                nodes[ids[i++]] = c;
                walk(c);
            }
        })(root);
    }

    function patches(r) {
        r.uvarint();
        var count = r.uvarint();
        for (var i = 0; i < count; i++) {
            var op = r.byte(), n = nodes[r.uvarint()];
            switch (op) {
            case 0x01: var t = r.string(); if (n) n.nodeValue = t; break;
            case 0x02: var k = r.string(), v = r.string(); if (n) n.setAttribute(k, v); break;
            case 0x03: var k2 = r.string(); if (n) n.removeAttribute(k2); break;
            case 0x04: r.uvarint(); r.string(); ws.close(); return;
            case 0x05: if (n) n.remove(); break;
            case 0x09: var p = r.string(), on = r.byte() === 1; if (n) n[p === 'readonly' ? 'readOnly' : p] = on; break;
            case 0x13: var sp = r.string(), sv = r.string(); if (n) n.style.setProperty(sp, sv); break;
            case 0x14: var rp = r.string(); if (n) n.style.removeProperty(rp); break;
            default: ws.close(); return;
            }
        }
    }

    var ws;
    function connect() {
        var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
        ws = new WebSocket(proto + '//' + location.host + VBIND_PATH);
        ws.binaryType = 'arraybuffer';
        ws.onopen = function() { reconnectDelay = 500; };
        ws.onmessage = function(e) {
            var buf = new Uint8Array(e.data);
            var r = reader(buf.subarray(6));
            if (buf[0] === 0x01) snapshot(r);
            else if (buf[0] === 0x02) patches(r);
        };
        ws.onclose = function() {
            setTimeout(function() {
                reconnectDelay = Math.min(reconnectDelay * 2, 30000);
                connect();
            }, reconnectDelay);
        };
    }
    connect();
})();
`
